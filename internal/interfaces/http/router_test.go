package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/application/projection"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Kardex-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: API completa sobre el driver en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app     *fiber.App
	catalog *memory.CatalogRepository
}

// newAPIApp arma la aplicación completa (router + middlewares + casos de uso)
// contra el driver en memoria, con el catálogo sembrado.
func newAPIApp(t *testing.T, products ...*entity.ProductRef) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	catalog := memory.NewCatalogRepository(products...)
	balances := memory.NewBalanceRepository(store)
	engine := ledger.NewEngine(memory.NewTxRunner(store), balances, catalog, nil)
	alerts := projection.NewAlertProjection(balances, catalog)
	valuation := projection.NewValuationProjection(balances, catalog)
	gateway := orders.NewPurchaseOrderGateway(engine)
	suggestions := orders.NewReorderSuggestionUseCase(alerts, catalog)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:      engine,
		Alerts:      alerts,
		Valuation:   valuation,
		Gateway:     gateway,
		Suggestions: suggestions,
		JWTSecret:   testJWTSecret,
	})
	return &apiFixture{app: app, catalog: catalog}
}

// producto construye una referencia de catálogo para los tests.
func producto(id, sku, nombre string, reorden int64, precio string) *entity.ProductRef {
	return &entity.ProductRef{
		ProductID:    id,
		SKU:          sku,
		Name:         nombre,
		ReorderPoint: reorden,
		UnitPrice:    decimal.RequireFromString(precio),
	}
}

// request lanza una petición contra la app. role vacío = sin Authorization.
func (f *apiFixture) request(t *testing.T, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// mov registra un movimiento vía la API y exige que quede comprometido.
func (f *apiFixture) mov(t *testing.T, productID, kind string, qty int64) dto.MovementCommittedResponse {
	t.Helper()
	resp := f.request(t, http.MethodPost, "/api/ledger/movements", apphttp.RoleBodeguero, dto.SubmitMovementRequest{
		ProductID: productID,
		Kind:      kind,
		Quantity:  qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode,
		"el movimiento de preparación debe comprometerse")
	var out dto.MovementCommittedResponse
	decodeJSON(t, resp, &out)
	return out
}

// decodeJSON decodifica el cuerpo de la respuesta y lo cierra.
func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// errorCode extrae el campo code de una respuesta de error.
func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	decodeJSON(t, resp, &body)
	return body.Code
}
