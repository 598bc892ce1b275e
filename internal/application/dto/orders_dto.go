package dto

import "github.com/shopspring/decimal"

// ReceiveOrderRequest body para POST /api/purchase-orders/receipts: la
// recepción de una orden de compra, línea por línea.
type ReceiveOrderRequest struct {
	OrderReference string                    `json:"order_reference"`
	Lines          []ReceiveOrderLineRequest `json:"lines"`
}

// ReceiveOrderLineRequest una línea recibida de la orden.
type ReceiveOrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// ReceiveOrderResponse resultado de la recepción, línea por línea. Cada línea
// es su propio commit: las fallidas no revierten a las comprometidas.
type ReceiveOrderResponse struct {
	OrderReference string               `json:"order_reference"`
	Committed      int                  `json:"committed"`
	Rejected       int                  `json:"rejected"`
	Lines          []OrderLineResultDTO `json:"lines"`
}

// OrderLineResultDTO resultado individual de una línea.
type OrderLineResultDTO struct {
	ProductID  string `json:"product_id"`
	Status     string `json:"status"` // committed | rejected
	EventID    int64  `json:"event_id,omitempty"`
	NewBalance int64  `json:"new_balance,omitempty"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ReorderSuggestionDTO sugerencia de reposición para un producto en o bajo su
// punto de reorden.
type ReorderSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderPoint       int64           `json:"reorder_point"`
	IdealStock         int64           `json:"ideal_stock"`          // ReorderPoint * 1.5 redondeado hacia arriba
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`             // 1 = más urgente
}
