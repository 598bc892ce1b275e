package entity

import "github.com/shopspring/decimal"

// ProductRef es la referencia de catálogo que el ledger consulta en modo solo
// lectura: umbral de reorden y precio unitario. El ciclo de vida del producto
// pertenece al catálogo externo; aquí nunca se crea ni se modifica.
type ProductRef struct {
	ProductID    string
	SKU          string
	Name         string
	ReorderPoint int64
	UnitPrice    decimal.Decimal // precio para valoración del inventario
}
