package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationSnapshot es el agregado de valoración del inventario en un
// instante: Σ stock(p) × precio_unitario(p) sobre todos los productos.
// Vista derivada; el monto usa decimal de punto fijo para evitar deriva de
// redondeo al acumular.
type ValuationSnapshot struct {
	TotalValue decimal.Decimal
	TotalUnits int64
	Products   int
	TakenAt    time.Time
}
