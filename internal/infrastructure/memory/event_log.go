package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.EventLog = (*EventLog)(nil)

// EventLog es la vista del log fuera de transacción. Append aquí es atómico
// por sí solo; el append+aplicación del motor usa la vista transaccional del
// TxRunner.
type EventLog struct {
	store *Store
}

func NewEventLog(store *Store) *EventLog {
	return &EventLog{store: store}
}

func (l *EventLog) Append(_ context.Context, ev *entity.StockEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.Position = l.store.reservePosition()

	c := *ev
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.insertCommitted([]*entity.StockEvent{&c})
	return nil
}

func (l *EventLog) ReadSince(_ context.Context, fromPosition int64, fn func(*entity.StockEvent) error) error {
	for _, ev := range l.store.committedSince(fromPosition) {
		c := *ev
		if err := fn(&c); err != nil {
			return err
		}
	}
	return nil
}

func (l *EventLog) LastPosition(_ context.Context) (int64, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	if len(l.store.events) == 0 {
		return 0, nil
	}
	return l.store.events[len(l.store.events)-1].Position, nil
}
