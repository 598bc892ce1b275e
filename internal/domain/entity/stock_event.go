package entity

import "time"

// Tipos de evento de stock (value object conceptual).
const (
	KindInbound    = "IN"         // entrada (recepción de compra, devolución)
	KindOutbound   = "OUT"        // salida (venta, baja)
	KindAdjustment = "ADJUSTMENT" // ajuste (conteo físico, corrección)
)

// StockEvent es el hecho inmutable del kardex: una vez anexado al log nunca se
// modifica ni se elimina; las correcciones son nuevos eventos ADJUSTMENT.
//
// Quantity es la magnitud (positiva) para IN/OUT y un entero con signo para
// ADJUSTMENT. Position es el orden total del log, asignado en el Append; es el
// identificador monótono del evento. ID es la identidad de auditoría (uuid).
type StockEvent struct {
	ID         string
	Position   int64
	ProductID  string
	Kind       string // IN, OUT, ADJUSTMENT
	Quantity   int64
	OccurredAt time.Time
	Reference  string // orden de compra, factura, nota de ajuste, etc.
	Notes      string
	CreatedAt  time.Time
	CreatedBy  string // actor del token (auditoría)
}
