package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
)

// pgCode devuelve el SQLSTATE del error ("" si no viene de PostgreSQL).
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isRetryable conflictos de concurrencia: serialization_failure (40001) y deadlock_detected (40P01).
func isRetryable(err error) bool {
	switch pgCode(err) {
	case "40001", "40P01":
		return true
	}
	return false
}

// mapWriteErr traduce errores de escritura a errores de dominio; el resto se envuelve con op.
func mapWriteErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return &domain.Error{Kind: domain.ErrDuplicate, Detail: op}
	case isRetryable(err):
		return domain.TransactionAborted(err)
	}
	return wrap(op, err)
}

func wrap(op string, err error) error {
	if isRetryable(err) {
		return domain.TransactionAborted(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// noRows fila inexistente.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// validID informa si id tiene formato UUID. Los repositorios tratan un id inválido como
// inexistente sin enviar la consulta.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
