package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
)

// SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgQueryCanceled       = "57014"
)

// MapError converts driver errors into the application taxonomy. op names the
// failing statement for wrapped errors; entity names the affected table.
func MapError(err error, op, entity string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewConflict(entity+" already exists").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewNotFound(entity+" reference", pgErr.ConstraintName).WithCause(err)
		case pgCheckViolation:
			return apperror.NewValidation("constraint violated").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgQueryCanceled:
			return apperror.NewDatabase(err).WithDetail("reason", "statement timeout")
		}
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}
