package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// wrapStorage clasifica una falla del driver como almacenamiento no
// disponible, conservando la causa para el diagnóstico.
func wrapStorage(op string, err error) error {
	return fmt.Errorf("%s: %w (%w)", op, domain.ErrStorageUnavailable, err)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
