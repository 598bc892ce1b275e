package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Engine es el motor del kardex: el único escritor del BalanceStore. Aplica un
// evento a la vez bajo la sección crítica exclusiva del producto y hace
// cumplir el invariante de stock no negativo en el momento del commit.
//
// Un evento rechazado no deja rastro: no se anexa al log ni toca el balance,
// preservando el invariante de reproducción del log.
type Engine struct {
	txRunner TxRunner
	balances repository.BalanceRepository // lecturas fuera de transacción
	catalog  repository.CatalogRepository
	listener CommitListener // opcional; nil = sin notificación de commits
}

// NewEngine construye el motor. listener puede ser nil.
func NewEngine(
	txRunner TxRunner,
	balances repository.BalanceRepository,
	catalog repository.CatalogRepository,
	listener CommitListener,
) *Engine {
	return &Engine{
		txRunner: txRunner,
		balances: balances,
		catalog:  catalog,
		listener: listener,
	}
}

// SubmitInput es el evento candidato de una sumisión.
// Quantity es magnitud (>= 0) para IN/OUT y entero con signo para ADJUSTMENT.
// OccurredAt en cero se interpreta como el instante de la sumisión.
type SubmitInput struct {
	ProductID  string
	Kind       string
	Quantity   int64
	OccurredAt time.Time
	Reference  string
	Notes      string
	ActorID    string
}

// Receipt es el resultado de una sumisión comprometida.
// EventID es la posición monótona del evento en el log.
type Receipt struct {
	EventID    int64
	EventUID   string
	ProductID  string
	NewBalance int64
}

// Submit valida el candidato, y bajo la sección crítica del producto calcula
// projected = balance + signed_quantity(candidato):
//
//   - si projected < 0, rechaza con InsufficientStockError sin anexar nada;
//   - si no, anexa al log y aplica el balance en la misma transacción.
//
// Cantidad cero se acepta como no-op: se registra el evento (toda sumisión
// queda en la auditoría) y el balance no cambia.
//
// El rechazo por stock y el producto desconocido son resultados de negocio
// esperados; una falla del almacenamiento se propaga sin cambios para que el
// caller reintente.
func (e *Engine) Submit(ctx context.Context, in SubmitInput) (*Receipt, error) {
	if in.ProductID == "" || !ledger.ValidKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind != entity.KindAdjustment && in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	// Verificación explícita contra el catálogo (sin integridad referencial
	// implícita): sumisiones de productos desconocidos se rechazan aquí.
	product, err := e.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.UnknownProductError{ProductID: in.ProductID}
	}

	now := time.Now().UTC()
	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	ev := &entity.StockEvent{
		ProductID:  in.ProductID,
		Kind:       in.Kind,
		Quantity:   in.Quantity,
		OccurredAt: occurredAt,
		Reference:  in.Reference,
		Notes:      in.Notes,
		CreatedAt:  now,
		CreatedBy:  in.ActorID,
	}

	var newBalance int64
	err = e.txRunner.Run(ctx, func(
		events repository.EventLog,
		balances repository.BalanceRepository,
	) error {
		// Sección crítica por producto: bloquea la fila/llave del balance.
		bal, err := balances.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		projected := bal.CurrentStock + ledger.SignedQuantity(ev)
		if projected < 0 {
			// Rechazar antes del append: el evento no deja rastro.
			return &domain.InsufficientStockError{
				ProductID: in.ProductID,
				Requested: bal.CurrentStock - projected,
				Available: bal.CurrentStock,
			}
		}
		if err := events.Append(ctx, ev); err != nil {
			return err
		}
		bal.CurrentStock = projected
		bal.UpdatedAt = now
		if err := balances.Upsert(ctx, bal); err != nil {
			return err
		}
		newBalance = projected
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.listener != nil {
		e.listener.EventCommitted(ctx, ev, newBalance)
	}
	return &Receipt{
		EventID:    ev.Position,
		EventUID:   ev.ID,
		ProductID:  ev.ProductID,
		NewBalance: newBalance,
	}, nil
}

// GetBalance devuelve el stock actual del producto (cero implícito si no hay
// eventos). Verifica el catálogo para distinguir "sin eventos" de
// "desconocido".
func (e *Engine) GetBalance(ctx context.Context, productID string) (*entity.Balance, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.UnknownProductError{ProductID: productID}
	}
	return e.balances.Get(ctx, productID)
}
