package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// CatalogRepository define el puerto de solo lectura hacia el catálogo de
// productos (colaborador externo): punto de reorden y precio unitario por
// producto. El ledger nunca crea ni modifica productos; únicamente verifica
// existencia y lee los metadatos para alertas y valoración.
type CatalogRepository interface {
	// GetProduct devuelve la referencia del producto o nil si el catálogo no
	// lo conoce.
	GetProduct(ctx context.Context, productID string) (*entity.ProductRef, error)

	// ListProducts devuelve todas las referencias del catálogo.
	ListProducts(ctx context.Context) ([]*entity.ProductRef, error)
}
