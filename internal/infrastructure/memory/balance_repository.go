package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepository)(nil)

// BalanceRepository es la vista de balances fuera de transacción: lecturas de
// proyecciones y consultas. El camino normal de escritura pasa por la vista
// transaccional; Upsert aquí existe para reconstrucciones desde el log.
type BalanceRepository struct {
	store *Store
}

func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{store: store}
}

func (r *BalanceRepository) Get(_ context.Context, productID string) (*entity.Balance, error) {
	return r.store.balanceCopy(productID), nil
}

// GetForUpdate fuera de transacción equivale a Get: sin transacción que
// delimite la sección crítica no hay bloqueo que retener, igual que un
// SELECT FOR UPDATE en autocommit.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, productID string) (*entity.Balance, error) {
	return r.Get(ctx, productID)
}

func (r *BalanceRepository) Upsert(_ context.Context, balance *entity.Balance) error {
	c := *balance
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.balances[c.ProductID] = &c
	return nil
}

func (r *BalanceRepository) List(_ context.Context) ([]*entity.Balance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Balance, 0, len(r.store.balances))
	for _, b := range r.store.balances {
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
