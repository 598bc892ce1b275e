package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/application/projection"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *ledger.Engine
	Alerts      *projection.AlertProjection
	Valuation   *projection.ValuationProjection
	Gateway     *orders.PurchaseOrderGateway
	Suggestions *orders.ReorderSuggestionUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las
// mutaciones del ledger además exigen rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	mutador := RequireRole(RoleAdmin, RoleBodeguero)

	// Ledger
	ledgerGroup := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Engine, deps.Alerts, deps.Valuation)
	ledgerGroup.Post("/movements", mutador, ledgerHandler.SubmitMovement)
	ledgerGroup.Get("/balances/:product_id", ledgerHandler.GetBalance)
	ledgerGroup.Get("/alerts", ledgerHandler.GetAlerts)
	ledgerGroup.Get("/valuation", ledgerHandler.GetValuation)

	// Órdenes de compra (frontera con el sistema externo)
	ordersGroup := api.Group("/purchase-orders")
	ordersHandler := NewOrdersHandler(deps.Gateway, deps.Suggestions)
	ordersGroup.Post("/receipts", mutador, ordersHandler.ReceiveOrder)
	ordersGroup.Get("/suggestions", ordersHandler.GetSuggestions)
}
