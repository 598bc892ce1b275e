package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.EventLog = (*EventLogRepo)(nil)

// EventLogRepo implementación del log append-only sobre PostgreSQL (usable
// con pool o tx). La posición es un BIGSERIAL: monótona y total, con posibles
// huecos si una transacción aborta después de reservar.
type EventLogRepo struct {
	q Querier
}

// NewEventLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEventLogRepository(q Querier) *EventLogRepo {
	return &EventLogRepo{q: q}
}

// Append anexa el evento y escribe la posición asignada sobre él. Un ID de
// auditoría repetido se rechaza como entrada inválida: el mismo evento no
// puede anexarse dos veces.
func (r *EventLogRepo) Append(ctx context.Context, ev *entity.StockEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	createdBy := (*string)(nil)
	if ev.CreatedBy != "" {
		createdBy = &ev.CreatedBy
	}
	query := `
		INSERT INTO stock_events (id, product_id, kind, quantity, occurred_at, reference, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING position`
	err := r.q.QueryRow(ctx, query,
		ev.ID, ev.ProductID, ev.Kind, ev.Quantity,
		ev.OccurredAt, ev.Reference, ev.Notes, ev.CreatedAt, createdBy,
	).Scan(&ev.Position)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("evento %s ya anexado: %w", ev.ID, domain.ErrInvalidInput)
		}
		return wrapStorage("append stock event", err)
	}
	return nil
}

// ReadSince entrega los eventos con posición mayor a fromPosition en orden
// del log. Un error del callback detiene la lectura y se propaga sin
// envolver.
func (r *EventLogRepo) ReadSince(ctx context.Context, fromPosition int64, fn func(*entity.StockEvent) error) error {
	query := `
		SELECT position, id, product_id, kind, quantity, occurred_at, reference, notes, created_at, created_by
		FROM stock_events
		WHERE position > $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, fromPosition)
	if err != nil {
		return wrapStorage("read stock events", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev entity.StockEvent
		var createdBy *string
		if err := rows.Scan(&ev.Position, &ev.ID, &ev.ProductID, &ev.Kind, &ev.Quantity,
			&ev.OccurredAt, &ev.Reference, &ev.Notes, &ev.CreatedAt, &createdBy); err != nil {
			return wrapStorage("scan stock event", err)
		}
		if createdBy != nil {
			ev.CreatedBy = *createdBy
		}
		if err := fn(&ev); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return wrapStorage("read stock events", err)
	}
	return nil
}

// LastPosition devuelve la última posición comprometida, o 0 con log vacío.
func (r *EventLogRepo) LastPosition(ctx context.Context) (int64, error) {
	var last int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(position), 0) FROM stock_events`).Scan(&last)
	if err != nil {
		return 0, wrapStorage("last position", err)
	}
	return last, nil
}
