package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/projection"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ReorderSuggestionUseCase genera la lista de reposición para el sistema de
// órdenes de compra: los productos en alerta con la cantidad sugerida de
// pedido y el costo estimado a precio de catálogo.
type ReorderSuggestionUseCase struct {
	alerts  *projection.AlertProjection
	catalog repository.CatalogRepository
}

// NewReorderSuggestionUseCase construye el caso de uso de sugerencias.
func NewReorderSuggestionUseCase(
	alerts *projection.AlertProjection,
	catalog repository.CatalogRepository,
) *ReorderSuggestionUseCase {
	return &ReorderSuggestionUseCase{
		alerts:  alerts,
		catalog: catalog,
	}
}

// GenerateSuggestions devuelve una sugerencia por producto en alerta, en el
// mismo orden de urgencia de la proyección (stock ascendente). El stock ideal
// es punto de reorden × 1.5 redondeado hacia arriba; la cantidad sugerida es
// el faltante contra ese ideal.
func (uc *ReorderSuggestionUseCase) GenerateSuggestions(ctx context.Context) ([]dto.ReorderSuggestionDTO, error) {
	// 1. Productos en o bajo el punto de reorden, ya ordenados por urgencia
	alerts, err := uc.alerts.CurrentAlerts(ctx)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return []dto.ReorderSuggestionDTO{}, nil
	}

	// 2. Precios de catálogo para el costo estimado
	products, err := uc.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	priceByID := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		priceByID[p.ProductID] = p.UnitPrice
	}

	// 3. Construir las sugerencias
	suggestions := make([]dto.ReorderSuggestionDTO, 0, len(alerts))
	for i, alert := range alerts {
		idealStock := (alert.ReorderPoint*3 + 1) / 2 // ceil(reorden × 1.5) en enteros
		suggestedQty := idealStock - alert.CurrentStock
		if suggestedQty < 0 {
			suggestedQty = 0
		}
		unitPrice := priceByID[alert.ProductID]

		suggestions = append(suggestions, dto.ReorderSuggestionDTO{
			ProductID:          alert.ProductID,
			SKU:                alert.SKU,
			Name:               alert.Name,
			CurrentStock:       alert.CurrentStock,
			ReorderPoint:       alert.ReorderPoint,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitPrice:          unitPrice,
			EstimatedOrderCost: unitPrice.Mul(decimal.NewFromInt(suggestedQty)),
			Priority:           i + 1,
		})
	}

	return suggestions, nil
}
