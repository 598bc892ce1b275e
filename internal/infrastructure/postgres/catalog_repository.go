package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lee la tabla de productos mantenida por el sistema de catálogo.
// Solo lectura: el ledger nunca escribe aquí.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetProduct devuelve la referencia del producto, o nil si el catálogo no lo conoce.
func (r *CatalogRepo) GetProduct(ctx context.Context, productID string) (*entity.ProductRef, error) {
	query := `
		SELECT product_id, sku, name, reorder_point, unit_price
		FROM products WHERE product_id = $1`
	var p entity.ProductRef
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&p.ProductID, &p.SKU, &p.Name, &p.ReorderPoint, &p.UnitPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStorage("get product", err)
	}
	return &p, nil
}

// ListProducts devuelve todas las referencias del catálogo, ordenadas por producto.
func (r *CatalogRepo) ListProducts(ctx context.Context) ([]*entity.ProductRef, error) {
	query := `
		SELECT product_id, sku, name, reorder_point, unit_price
		FROM products ORDER BY product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list products", err)
	}
	defer rows.Close()

	var list []*entity.ProductRef
	for rows.Next() {
		var p entity.ProductRef
		if err := rows.Scan(&p.ProductID, &p.SKU, &p.Name, &p.ReorderPoint, &p.UnitPrice); err != nil {
			return nil, wrapStorage("scan product", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorage("list products", err)
	}
	return list, nil
}
