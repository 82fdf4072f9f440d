package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeUndefinedTable      = "42P01"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// IsDuplicateKeyError reports a unique_violation on any constraint.
func IsDuplicateKeyError(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	code, constraint := pgCode(err)
	return code == codeUniqueViolation && constraint == constraintName
}

// IsForeignKeyError reports a foreign_key_violation.
func IsForeignKeyError(err error) bool {
	code, _ := pgCode(err)
	return code == codeForeignKeyViolation
}

// IsUndefinedTableError reports that the statement referenced a table that does not exist.
func IsUndefinedTableError(err error) bool {
	code, _ := pgCode(err)
	return code == codeUndefinedTable
}
