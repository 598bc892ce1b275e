package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Replayer reconstruye balances reproduciendo el log de eventos en orden de
// posición. Como todo evento anexado pasó por el invariante del motor, una
// reproducción que arroje un balance negativo solo puede significar un log
// corrupto y se reporta como CorruptionError.
type Replayer struct {
	events repository.EventLog
}

func NewReplayer(events repository.EventLog) *Replayer {
	return &Replayer{events: events}
}

// Replay reproduce los eventos con posición mayor a fromPosition partiendo
// del estado initial (nil = vacío) y devuelve el estado final por producto.
// fn, si no es nil, recibe cada evento junto al balance resultante; un error
// de fn detiene la reproducción.
//
// Al detectar un balance negativo la reproducción se detiene en esa posición
// y el estado parcial no se devuelve.
func (r *Replayer) Replay(
	ctx context.Context,
	fromPosition int64,
	initial map[string]int64,
	fn func(ev *entity.StockEvent, balance int64) error,
) (map[string]int64, error) {
	state := make(map[string]int64, len(initial))
	for productID, stock := range initial {
		state[productID] = stock
	}

	err := r.events.ReadSince(ctx, fromPosition, func(ev *entity.StockEvent) error {
		balance := state[ev.ProductID] + ledger.SignedQuantity(ev)
		if balance < 0 {
			return &domain.CorruptionError{
				ProductID: ev.ProductID,
				Position:  ev.Position,
				Balance:   balance,
			}
		}
		state[ev.ProductID] = balance
		if fn != nil {
			return fn(ev, balance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Rebuild reproduce el log completo desde el estado vacío.
func (r *Replayer) Rebuild(ctx context.Context) (map[string]int64, error) {
	return r.Replay(ctx, 0, nil, nil)
}

// RebuildInto reconstruye los balances desde el log y los persiste, para
// recuperar un BalanceStore perdido o verificado como desviado.
func (r *Replayer) RebuildInto(ctx context.Context, balances repository.BalanceRepository) error {
	state, err := r.Rebuild(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for productID, stock := range state {
		bal := &entity.Balance{
			ProductID:    productID,
			CurrentStock: stock,
			UpdatedAt:    now,
		}
		if err := balances.Upsert(ctx, bal); err != nil {
			return err
		}
	}
	return nil
}
