package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacenamiento,
// pasando el log de eventos y el repositorio de balances atados a esa
// transacción. Garantiza la atomicidad append+aplicación del motor: o el
// evento queda anexado y el balance actualizado, o ninguna de las dos cosas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		events repository.EventLog,
		balances repository.BalanceRepository,
	) error) error
}

// CommitListener recibe cada evento comprometido junto con el nuevo balance
// del producto, después del commit. Implementaciones no deben bloquear: el
// motor las invoca de forma síncrona en el camino de la sumisión.
type CommitListener interface {
	EventCommitted(ctx context.Context, ev *entity.StockEvent, newBalance int64)
}
