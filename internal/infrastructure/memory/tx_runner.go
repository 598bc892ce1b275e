package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Ensure TxRunner implements appledger.TxRunner.
var _ appledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción por etapas sobre el
// Store: las escrituras de fn se acumulan en el estado de la transacción y se
// fusionan al Store solo si fn retorna nil. GetForUpdate toma el mutex del
// producto y lo retiene hasta el final de la transacción, el equivalente del
// SELECT FOR UPDATE del driver de PostgreSQL.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con vistas atadas a la transacción y fusiona o descarta las
// escrituras según el resultado.
func (r *TxRunner) Run(ctx context.Context, fn func(
	events repository.EventLog,
	balances repository.BalanceRepository,
) error) error {
	tx := &txState{
		store:    r.store,
		balances: make(map[string]*entity.Balance),
	}
	defer tx.releaseLocks()

	if err := fn(&txEventLog{tx: tx}, &txBalanceRepository{tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// txState acumula las escrituras de una transacción y los bloqueos por
// producto adquiridos con GetForUpdate.
type txState struct {
	store    *Store
	locked   []string
	events   []*entity.StockEvent
	balances map[string]*entity.Balance
}

func (t *txState) lockProduct(productID string) {
	for _, id := range t.locked {
		if id == productID {
			return
		}
	}
	t.store.productLocks.Lock(productID)
	t.locked = append(t.locked, productID)
}

func (t *txState) releaseLocks() {
	for i := len(t.locked) - 1; i >= 0; i-- {
		t.store.productLocks.Unlock(t.locked[i])
	}
	t.locked = nil
}

// commit fusiona las escrituras al Store. Los bloqueos se liberan después,
// en el defer de Run, de modo que el siguiente lector del producto ya vea lo
// comprometido.
func (t *txState) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCommitted(t.events)
	for _, b := range t.balances {
		s.balances[b.ProductID] = b
	}
}

// txEventLog es la vista del log atada a la transacción: los appends quedan
// en etapa y las lecturas ven lo comprometido más lo propio.
type txEventLog struct {
	tx *txState
}

func (l *txEventLog) Append(_ context.Context, ev *entity.StockEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.Position = l.tx.store.reservePosition()
	c := *ev
	l.tx.events = append(l.tx.events, &c)
	return nil
}

func (l *txEventLog) ReadSince(_ context.Context, fromPosition int64, fn func(*entity.StockEvent) error) error {
	evs := l.tx.store.committedSince(fromPosition)
	for _, ev := range l.tx.events {
		if ev.Position > fromPosition {
			evs = append(evs, ev)
		}
	}
	sort.Slice(evs, func(i, j int) bool { return evs[i].Position < evs[j].Position })
	for _, ev := range evs {
		c := *ev
		if err := fn(&c); err != nil {
			return err
		}
	}
	return nil
}

func (l *txEventLog) LastPosition(ctx context.Context) (int64, error) {
	last, err := NewEventLog(l.tx.store).LastPosition(ctx)
	if err != nil {
		return 0, err
	}
	for _, ev := range l.tx.events {
		if ev.Position > last {
			last = ev.Position
		}
	}
	return last, nil
}

// txBalanceRepository es la vista de balances atada a la transacción.
type txBalanceRepository struct {
	tx *txState
}

func (r *txBalanceRepository) Get(_ context.Context, productID string) (*entity.Balance, error) {
	if b, ok := r.tx.balances[productID]; ok {
		c := *b
		return &c, nil
	}
	return r.tx.store.balanceCopy(productID), nil
}

func (r *txBalanceRepository) GetForUpdate(ctx context.Context, productID string) (*entity.Balance, error) {
	r.tx.lockProduct(productID)
	return r.Get(ctx, productID)
}

func (r *txBalanceRepository) Upsert(_ context.Context, balance *entity.Balance) error {
	c := *balance
	r.tx.balances[c.ProductID] = &c
	return nil
}

func (r *txBalanceRepository) List(_ context.Context) ([]*entity.Balance, error) {
	merged := make(map[string]*entity.Balance)
	r.tx.store.mu.RLock()
	for id, b := range r.tx.store.balances {
		c := *b
		merged[id] = &c
	}
	r.tx.store.mu.RUnlock()
	for id, b := range r.tx.balances {
		c := *b
		merged[id] = &c
	}
	out := make([]*entity.Balance, 0, len(merged))
	for _, b := range merged {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
