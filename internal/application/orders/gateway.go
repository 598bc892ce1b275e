package orders

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// PurchaseOrderGateway es la frontera con el sistema de órdenes de compra. El
// ledger no implementa el flujo de la orden (Pending → Shipped → Received |
// Cancelled): solo recibe la transición a Received y convierte cada línea en
// un evento IN del motor. El resultado de cada línea se devuelve síncrono al
// sistema de órdenes.
type PurchaseOrderGateway struct {
	engine *ledger.Engine
}

// NewPurchaseOrderGateway construye el gateway sobre el motor.
func NewPurchaseOrderGateway(engine *ledger.Engine) *PurchaseOrderGateway {
	return &PurchaseOrderGateway{engine: engine}
}

// OrderLine es una línea de la orden recibida.
type OrderLine struct {
	ProductID string
	Quantity  int64
}

// LineResult es el resultado de una línea: Receipt si se comprometió, Err si
// fue rechazada o falló.
type LineResult struct {
	ProductID string
	Receipt   *ledger.Receipt
	Err       error
}

// ReceiveOrderLine registra la recepción de una línea como entrada del
// ledger, con la referencia de la orden para la auditoría.
func (g *PurchaseOrderGateway) ReceiveOrderLine(
	ctx context.Context,
	productID string,
	quantity int64,
	orderReference string,
	actorID string,
) (*ledger.Receipt, error) {
	return g.engine.Submit(ctx, ledger.SubmitInput{
		ProductID: productID,
		Kind:      entity.KindInbound,
		Quantity:  quantity,
		Reference: orderReference,
		ActorID:   actorID,
	})
}

// ReceiveOrder procesa todas las líneas de una orden recibida. Cada línea es
// su propio commit (un evento nunca toca más de un producto): una línea
// rechazada no revierte a las ya comprometidas, y el resultado se reporta
// línea por línea.
func (g *PurchaseOrderGateway) ReceiveOrder(
	ctx context.Context,
	orderReference string,
	actorID string,
	lines []OrderLine,
) []LineResult {
	results := make([]LineResult, 0, len(lines))
	for _, line := range lines {
		receipt, err := g.ReceiveOrderLine(ctx, line.ProductID, line.Quantity, orderReference, actorID)
		results = append(results, LineResult{
			ProductID: line.ProductID,
			Receipt:   receipt,
			Err:       err,
		})
	}
	return results
}
