package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// BalanceRepository define el puerto para consultar/actualizar el balance por
// producto. Solo el motor del ledger escribe; las proyecciones solo leen.
type BalanceRepository interface {
	// Get obtiene el balance actual; si el producto no tiene eventos todavía
	// devuelve un balance implícito en cero (nunca nil).
	Get(ctx context.Context, productID string) (*entity.Balance, error)

	// GetForUpdate obtiene el balance y toma la sección crítica exclusiva del
	// producto (SELECT FOR UPDATE en PostgreSQL, mutex por llave en memoria).
	// Debe usarse dentro de la transacción del TxRunner; la sección se libera
	// al terminar la transacción.
	GetForUpdate(ctx context.Context, productID string) (*entity.Balance, error)

	// Upsert inserta o actualiza el balance del producto.
	Upsert(ctx context.Context, balance *entity.Balance) error

	// List devuelve todos los balances conocidos (productos con al menos un
	// evento comprometido).
	List(ctx context.Context) ([]*entity.Balance, error)
}
