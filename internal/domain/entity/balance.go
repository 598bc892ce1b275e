package entity

import "time"

// Balance representa el stock actual de un producto: la proyección
// materializada del log de eventos. Solo el motor del ledger lo escribe.
// Invariante: CurrentStock nunca es negativo después de un commit.
type Balance struct {
	ProductID    string
	CurrentStock int64
	UpdatedAt    time.Time
}
