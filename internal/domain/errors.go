package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnknownProduct    = errors.New("producto desconocido para el catálogo")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrStorageUnavailable indica una falla del medio de persistencia del log:
	// el evento no quedó ni anexado ni aplicado; el caller puede reintentar.
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
	// ErrLedgerCorrupted indica un log que al reproducirse produce un balance
	// negativo. Nunca debe ocurrir con el rechazo previo al append; su presencia
	// siempre es un bug o manipulación de datos, no una condición recuperable.
	ErrLedgerCorrupted = errors.New("ledger corrupto")
)

// InsufficientStockError es el resultado de negocio esperado cuando una salida
// dejaría el balance negativo. No es una falla: todo caller debe manejarlo
// como rama normal (bloquear la venta, generar backorder, etc.).
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock) sobre el error tipado.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// UnknownProductError se retorna cuando el catálogo no conoce el product_id de
// la sumisión. El ledger no confía en integridad referencial implícita: la
// verificación contra el catálogo es explícita.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("producto desconocido: %s", e.ProductID)
}

func (e *UnknownProductError) Is(target error) bool {
	return target == ErrUnknownProduct
}

// CorruptionError reporta la posición exacta del log donde la reproducción
// produjo un balance negativo. Detiene el replay; requiere intervención de un
// operador, nunca reintento.
type CorruptionError struct {
	ProductID string
	Position  int64
	Balance   int64
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("ledger corrupto: producto %s con balance %d en posición %d",
		e.ProductID, e.Balance, e.Position)
}

func (e *CorruptionError) Is(target error) bool {
	return target == ErrLedgerCorrupted
}
