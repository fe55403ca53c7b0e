package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta la violación de constraint único de PostgreSQL
// (SQLSTATE 23505), que los repos traducen a domain.ErrDuplicate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Fallback para errores envueltos sin *PgError (p. ej. pools con proxy).
	return strings.Contains(err.Error(), "23505")
}
