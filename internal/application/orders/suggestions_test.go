package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de sugerencias de reposición
// ──────────────────────────────────────────────────────────────────────────────

// La lista propone llevar cada producto en alerta a reorden × 1.5, con el
// costo estimado a precio de catálogo, ordenada por urgencia.
func TestGenerateSuggestions_CantidadesYCostos(t *testing.T) {
	f := newOrdersFixture(t,
		ref("prod-a", 10, "2.50"), // quedará en 4: ideal 15, sugerido 11
		ref("prod-b", 5, "0.10"),  // sin eventos: ideal 8 (7.5 hacia arriba), sugerido 8
		ref("prod-c", 10, "9.99"), // quedará en 30: fuera de la lista
	)
	ctx := context.Background()

	_, err := f.engine.Submit(ctx, ledger.SubmitInput{ProductID: "prod-a", Kind: entity.KindInbound, Quantity: 4})
	require.NoError(t, err)
	_, err = f.engine.Submit(ctx, ledger.SubmitInput{ProductID: "prod-c", Kind: entity.KindInbound, Quantity: 30})
	require.NoError(t, err)

	list, err := f.suggestions.GenerateSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// prod-b con stock 0 es el más urgente.
	assert.Equal(t, "prod-b", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(8), list[0].IdealStock, "7.5 debe redondear hacia arriba")
	assert.Equal(t, int64(8), list[0].SuggestedOrderQty)
	assert.True(t, list[0].EstimatedOrderCost.Equal(decimal.RequireFromString("0.80")),
		"esperaba 0.80, obtuve %s", list[0].EstimatedOrderCost)

	assert.Equal(t, "prod-a", list[1].ProductID)
	assert.Equal(t, 2, list[1].Priority)
	assert.Equal(t, int64(15), list[1].IdealStock)
	assert.Equal(t, int64(11), list[1].SuggestedOrderQty)
	assert.True(t, list[1].EstimatedOrderCost.Equal(decimal.RequireFromString("27.50")))
}

func TestGenerateSuggestions_SinAlertasRetornaVacio(t *testing.T) {
	f := newOrdersFixture(t, ref("prod-a", 10, "2.50"))
	ctx := context.Background()

	_, err := f.engine.Submit(ctx, ledger.SubmitInput{ProductID: "prod-a", Kind: entity.KindInbound, Quantity: 100})
	require.NoError(t, err)

	list, err := f.suggestions.GenerateSuggestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Un punto de reorden impar redondea el ideal hacia arriba.
func TestGenerateSuggestions_ReordenImpar(t *testing.T) {
	f := newOrdersFixture(t, ref("prod-d", 7, "1.00"))
	ctx := context.Background()

	_, err := f.engine.Submit(ctx, ledger.SubmitInput{ProductID: "prod-d", Kind: entity.KindInbound, Quantity: 7})
	require.NoError(t, err)

	list, err := f.suggestions.GenerateSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "stock igual al reorden sigue en alerta")
	assert.Equal(t, int64(11), list[0].IdealStock, "10.5 debe redondear hacia arriba")
	assert.Equal(t, int64(4), list[0].SuggestedOrderQty)
}
