package entity

// AlertEntry es una entrada de la proyección de alertas: un producto cuyo
// stock actual está en o por debajo de su punto de reorden. Derivada y
// efímera; se recalcula desde Balance + ProductRef, nunca se persiste.
type AlertEntry struct {
	ProductID    string
	SKU          string
	Name         string
	CurrentStock int64
	ReorderPoint int64
}
