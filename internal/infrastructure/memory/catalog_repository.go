package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository es el catálogo de productos en memoria, sembrable al
// arranque. Hace las veces del sistema de catálogo externo en desarrollo
// local y tests.
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[string]*entity.ProductRef
}

func NewCatalogRepository(products ...*entity.ProductRef) *CatalogRepository {
	c := &CatalogRepository{
		products: make(map[string]*entity.ProductRef, len(products)),
	}
	c.Seed(products...)
	return c
}

// Seed agrega o reemplaza referencias del catálogo.
func (c *CatalogRepository) Seed(products ...*entity.ProductRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		cp := *p
		c.products[cp.ProductID] = &cp
	}
}

func (c *CatalogRepository) GetProduct(_ context.Context, productID string) (*entity.ProductRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.products[productID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (c *CatalogRepository) ListProducts(_ context.Context) ([]*entity.ProductRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*entity.ProductRef, 0, len(c.products))
	for _, p := range c.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
