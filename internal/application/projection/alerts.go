package projection

import (
	"context"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// AlertProjection responde "qué productos necesitan reposición", siempre
// consistente con el último balance comprometido. Es una vista pull-on-read:
// recalcula en cada consulta combinando balances con el catálogo, de modo que
// ningún commit puede quedar sin reflejar en la siguiente lectura.
type AlertProjection struct {
	balances repository.BalanceRepository
	catalog  repository.CatalogRepository
}

// NewAlertProjection construye la proyección de alertas.
func NewAlertProjection(
	balances repository.BalanceRepository,
	catalog repository.CatalogRepository,
) *AlertProjection {
	return &AlertProjection{
		balances: balances,
		catalog:  catalog,
	}
}

// CurrentAlerts devuelve los productos con stock en o por debajo de su punto
// de reorden, ordenados por stock ascendente (el más urgente primero) con
// product_id como desempate determinista. Los productos del catálogo sin
// eventos cuentan con su balance implícito en cero.
func (p *AlertProjection) CurrentAlerts(ctx context.Context) ([]*entity.AlertEntry, error) {
	// 1. Catálogo completo: el umbral vive en el producto
	products, err := p.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []*entity.AlertEntry{}, nil
	}

	// 2. Balances comprometidos
	balances, err := p.balances.List(ctx)
	if err != nil {
		return nil, err
	}
	stockByID := make(map[string]int64, len(balances))
	for _, b := range balances {
		stockByID[b.ProductID] = b.CurrentStock
	}

	// 3. Filtrar por umbral
	alerts := make([]*entity.AlertEntry, 0, len(products))
	for _, prod := range products {
		stock := stockByID[prod.ProductID]
		if stock <= prod.ReorderPoint {
			alerts = append(alerts, &entity.AlertEntry{
				ProductID:    prod.ProductID,
				SKU:          prod.SKU,
				Name:         prod.Name,
				CurrentStock: stock,
				ReorderPoint: prod.ReorderPoint,
			})
		}
	}

	// 4. Ordenar: stock ascendente, desempate por product_id
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].CurrentStock != alerts[j].CurrentStock {
			return alerts[i].CurrentStock < alerts[j].CurrentStock
		}
		return alerts[i].ProductID < alerts[j].ProductID
	})

	return alerts, nil
}
