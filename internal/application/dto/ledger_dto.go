package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitMovementRequest body para POST /api/ledger/movements.
type SubmitMovementRequest struct {
	ProductID  string     `json:"product_id"`
	Kind       string     `json:"kind"` // IN, OUT, ADJUSTMENT
	Quantity   int64      `json:"quantity"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	Reference  string     `json:"reference,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// MovementCommittedResponse resultado de una sumisión comprometida.
type MovementCommittedResponse struct {
	EventID    int64  `json:"event_id"`    // posición monótona en el log
	EventUID   string `json:"event_uid"`   // identidad de auditoría (uuid)
	ProductID  string `json:"product_id"`
	NewBalance int64  `json:"new_balance"`
}

// BalanceResponse respuesta de GET /api/ledger/balances/:product_id.
type BalanceResponse struct {
	ProductID    string    `json:"product_id"`
	CurrentStock int64     `json:"current_stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AlertEntryDTO una entrada de la proyección de alertas.
type AlertEntryDTO struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"current_stock"`
	ReorderPoint int64  `json:"reorder_point"`
}

// ValuationResponse respuesta de GET /api/ledger/valuation.
type ValuationResponse struct {
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	TotalUnits          int64           `json:"total_units"`
	ProductsWithStock   int             `json:"products_with_stock"`
	TakenAt             time.Time       `json:"taken_at"`
}
