package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/projection"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// LedgerHandler maneja las peticiones HTTP del kardex (protegido).
type LedgerHandler struct {
	engine    *ledger.Engine
	alerts    *projection.AlertProjection
	valuation *projection.ValuationProjection
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	engine *ledger.Engine,
	alerts *projection.AlertProjection,
	valuation *projection.ValuationProjection,
) *LedgerHandler {
	return &LedgerHandler{
		engine:    engine,
		alerts:    alerts,
		valuation: valuation,
	}
}

// mapLedgerError traduce un error del motor a status + cuerpo de error HTTP.
// El rechazo por stock es 409 (resultado de negocio, no falla); una falla de
// almacenamiento es 503 para que el caller reintente.
func mapLedgerError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownProduct):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "UNKNOWN_PRODUCT", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible, reintente"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}

// SubmitMovement godoc
// @Summary      Someter un evento de stock al ledger
// @Description  Valida y compromete un evento IN/OUT/ADJUSTMENT bajo el invariante
//               de stock no negativo. Un rechazo por stock insuficiente retorna 409
//               y no deja rastro en el log.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitMovementRequest  true  "product_id, kind (IN|OUT|ADJUSTMENT), quantity, occurred_at?, reference?, notes?"
// @Success      201   {object}  dto.MovementCommittedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) SubmitMovement(c *fiber.Ctx) error {
	var in dto.SubmitMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	submit := ledger.SubmitInput{
		ProductID: in.ProductID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Notes:     in.Notes,
		ActorID:   GetActorID(c),
	}
	if in.OccurredAt != nil {
		submit.OccurredAt = *in.OccurredAt
	}

	receipt, err := h.engine.Submit(c.Context(), submit)
	if err != nil {
		status, body := mapLedgerError(err)
		return c.Status(status).JSON(body)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementCommittedResponse{
		EventID:    receipt.EventID,
		EventUID:   receipt.EventUID,
		ProductID:  receipt.ProductID,
		NewBalance: receipt.NewBalance,
	})
}

// GetBalance godoc
// @Summary      Balance actual de un producto
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/balances/{product_id} [get]
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	bal, err := h.engine.GetBalance(c.Context(), productID)
	if err != nil {
		status, body := mapLedgerError(err)
		return c.Status(status).JSON(body)
	}
	return c.JSON(dto.BalanceResponse{
		ProductID:    bal.ProductID,
		CurrentStock: bal.CurrentStock,
		UpdatedAt:    bal.UpdatedAt,
	})
}

// GetAlerts godoc
// @Summary      Productos en o bajo su punto de reorden
// @Description  Ordenados por stock ascendente (más urgente primero), desempate
//               por product_id.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.AlertEntryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ledger/alerts [get]
func (h *LedgerHandler) GetAlerts(c *fiber.Ctx) error {
	alerts, err := h.alerts.CurrentAlerts(c.Context())
	if err != nil {
		status, body := mapLedgerError(err)
		return c.Status(status).JSON(body)
	}
	list := make([]dto.AlertEntryDTO, 0, len(alerts))
	for _, a := range alerts {
		list = append(list, dto.AlertEntryDTO{
			ProductID:    a.ProductID,
			SKU:          a.SKU,
			Name:         a.Name,
			CurrentStock: a.CurrentStock,
			ReorderPoint: a.ReorderPoint,
		})
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": list,
	})
}

// GetValuation godoc
// @Summary      Valoración del inventario
// @Description  Valor total (decimal exacto) y unidades totales al momento de la
//               lectura.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ledger/valuation [get]
func (h *LedgerHandler) GetValuation(c *fiber.Ctx) error {
	snap, err := h.valuation.CurrentValuation(c.Context())
	if err != nil {
		status, body := mapLedgerError(err)
		return c.Status(status).JSON(body)
	}
	return c.JSON(dto.ValuationResponse{
		TotalInventoryValue: snap.TotalValue,
		TotalUnits:          snap.TotalUnits,
		ProductsWithStock:   snap.Products,
		TakenAt:             snap.TakenAt,
	})
}
