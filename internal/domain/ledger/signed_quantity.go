package ledger

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// SignedQuantity implementa la regla que convierte cada evento en una mutación
// de balance (servicio de dominio):
//
//	IN → +Quantity, OUT → -Quantity, ADJUSTMENT → Quantity con su propio signo.
//
// El invariante del kardex es que el balance de un producto siempre es igual a
// la suma de SignedQuantity sobre sus eventos comprometidos, en orden de log.
func SignedQuantity(ev *entity.StockEvent) int64 {
	switch ev.Kind {
	case entity.KindInbound:
		return ev.Quantity
	case entity.KindOutbound:
		return -ev.Quantity
	case entity.KindAdjustment:
		return ev.Quantity
	}
	return 0
}

// ValidKind indica si el tipo de evento es uno de los conocidos.
func ValidKind(kind string) bool {
	switch kind {
	case entity.KindInbound, entity.KindOutbound, entity.KindAdjustment:
		return true
	}
	return false
}
