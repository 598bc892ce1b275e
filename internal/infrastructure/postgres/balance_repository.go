package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable
// con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el balance actual; sin fila devuelve el balance implícito en cero.
func (r *BalanceRepo) Get(ctx context.Context, productID string) (*entity.Balance, error) {
	query := `
		SELECT product_id, current_stock, updated_at
		FROM balances WHERE product_id = $1`
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, productID).Scan(&b.ProductID, &b.CurrentStock, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{ProductID: productID}, nil
		}
		return nil, wrapStorage("get balance", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el balance bloqueando la fila (SELECT FOR UPDATE). La
// fila se crea en cero si no existe, para que el primer evento de un producto
// también tenga qué bloquear: dos primeras sumisiones concurrentes se
// serializan sobre esa fila.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Balance, error) {
	insert := `
		INSERT INTO balances (product_id, current_stock)
		VALUES ($1, 0)
		ON CONFLICT (product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID); err != nil {
		return nil, wrapStorage("ensure balance row", err)
	}

	query := `
		SELECT product_id, current_stock, updated_at
		FROM balances WHERE product_id = $1
		FOR UPDATE`
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, productID).Scan(&b.ProductID, &b.CurrentStock, &b.UpdatedAt)
	if err != nil {
		return nil, wrapStorage("get balance for update", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el balance del producto.
func (r *BalanceRepo) Upsert(ctx context.Context, balance *entity.Balance) error {
	query := `
		INSERT INTO balances (product_id, current_stock, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id)
		DO UPDATE SET current_stock = EXCLUDED.current_stock, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, balance.ProductID, balance.CurrentStock, balance.UpdatedAt)
	if err != nil {
		return wrapStorage("upsert balance", err)
	}
	return nil
}

// List devuelve todos los balances, ordenados por producto.
func (r *BalanceRepo) List(ctx context.Context) ([]*entity.Balance, error) {
	query := `
		SELECT product_id, current_stock, updated_at
		FROM balances ORDER BY product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list balances", err)
	}
	defer rows.Close()

	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ProductID, &b.CurrentStock, &b.UpdatedAt); err != nil {
			return nil, wrapStorage("scan balance", err)
		}
		list = append(list, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorage("list balances", err)
	}
	return list, nil
}
