package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
)

// OrdersHandler maneja la frontera HTTP con el sistema de órdenes de compra.
type OrdersHandler struct {
	gateway     *orders.PurchaseOrderGateway
	suggestions *orders.ReorderSuggestionUseCase
}

// NewOrdersHandler construye el handler.
func NewOrdersHandler(
	gateway *orders.PurchaseOrderGateway,
	suggestions *orders.ReorderSuggestionUseCase,
) *OrdersHandler {
	return &OrdersHandler{
		gateway:     gateway,
		suggestions: suggestions,
	}
}

// ReceiveOrder godoc
// @Summary      Registrar la recepción de una orden de compra
// @Description  Convierte cada línea recibida en un evento IN del ledger. Cada
//               línea es su propio commit: las rechazadas se reportan en el
//               resultado sin revertir a las comprometidas.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveOrderRequest  true  "order_reference y líneas recibidas"
// @Success      200   {object}  dto.ReceiveOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/receipts [post]
func (h *OrdersHandler) ReceiveOrder(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OrderReference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_reference requerido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la orden no tiene líneas"})
	}

	lines := make([]orders.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, orders.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	results := h.gateway.ReceiveOrder(c.Context(), in.OrderReference, GetActorID(c), lines)

	out := dto.ReceiveOrderResponse{
		OrderReference: in.OrderReference,
		Lines:          make([]dto.OrderLineResultDTO, 0, len(results)),
	}
	for _, res := range results {
		line := dto.OrderLineResultDTO{ProductID: res.ProductID}
		if res.Err != nil {
			_, body := mapLedgerError(res.Err)
			line.Status = "rejected"
			line.Code = body.Code
			line.Error = res.Err.Error()
			out.Rejected++
		} else {
			line.Status = "committed"
			line.EventID = res.Receipt.EventID
			line.NewBalance = res.Receipt.NewBalance
			out.Committed++
		}
		out.Lines = append(out.Lines, line)
	}
	return c.JSON(out)
}

// GetSuggestions godoc
// @Summary      Sugerencias de reposición
// @Description  Productos en alerta con cantidad sugerida (reorden × 1.5 −
//               stock) y costo estimado a precio de catálogo, más urgente
//               primero.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReorderSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/suggestions [get]
func (h *OrdersHandler) GetSuggestions(c *fiber.Ctx) error {
	list, err := h.suggestions.GenerateSuggestions(c.Context())
	if err != nil {
		status, body := mapLedgerError(err)
		return c.Status(status).JSON(body)
	}
	return c.JSON(fiber.Map{
		"total":       len(list),
		"suggestions": list,
	})
}
