package projection

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ValuationProjection responde "cuánto vale el inventario ahora": un fold de
// balances × precio unitario del catálogo, en decimal de punto fijo para que
// la acumulación no arrastre error de redondeo.
type ValuationProjection struct {
	balances repository.BalanceRepository
	catalog  repository.CatalogRepository
}

// NewValuationProjection construye la proyección de valoración.
func NewValuationProjection(
	balances repository.BalanceRepository,
	catalog repository.CatalogRepository,
) *ValuationProjection {
	return &ValuationProjection{
		balances: balances,
		catalog:  catalog,
	}
}

// CurrentValuation devuelve el valor y las unidades totales del inventario al
// momento de la lectura. El catálogo es la autoridad de precios: un balance
// cuyo producto ya no está en el catálogo no se puede valorar y se omite.
func (p *ValuationProjection) CurrentValuation(ctx context.Context) (*entity.ValuationSnapshot, error) {
	products, err := p.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := p.balances.List(ctx)
	if err != nil {
		return nil, err
	}
	stockByID := make(map[string]int64, len(balances))
	for _, b := range balances {
		stockByID[b.ProductID] = b.CurrentStock
	}

	total := decimal.Zero
	var units int64
	var withStock int
	for _, prod := range products {
		stock := stockByID[prod.ProductID]
		if stock == 0 {
			continue
		}
		total = total.Add(prod.UnitPrice.Mul(decimal.NewFromInt(stock)))
		units += stock
		withStock++
	}

	return &entity.ValuationSnapshot{
		TotalValue: total,
		TotalUnits: units,
		Products:   withStock,
		TakenAt:    time.Now().UTC(),
	}, nil
}
