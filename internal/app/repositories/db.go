package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/dberrors"
	"github.com/yigit/tutorhub/internal/pkg/logger"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so a repository can run
// against the pool or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// TableExists reports whether table is present in the current schema
func TableExists(ctx context.Context, db DBTX, table string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_tables WHERE schemaname = current_schema() AND tablename = $1)`,
		table,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

// requireTable returns ErrResourceUnavailable when an optional table is missing
func requireTable(ctx context.Context, db DBTX, table string) error {
	exists, err := TableExists(ctx, db, table)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %s: %w", table, apperrors.ErrResourceUnavailable)
	}
	return nil
}

// selectAll runs q and maps every row onto T by column name. It never returns a nil slice.
func selectAll[T any](ctx context.Context, db DBTX, q squirrel.Sqlizer) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// selectOne runs q and maps exactly one row onto T. No row is ErrResourceNotFound.
func selectOne[T any](ctx context.Context, db DBTX, q squirrel.Sqlizer) (*T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, wrapQueryError(err)
	}
	return item, nil
}

// exec runs a write and returns the number of affected rows
func exec(ctx context.Context, db DBTX, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapQueryError(err)
	}
	return tag.RowsAffected(), nil
}

func wrapQueryError(err error) error {
	switch {
	case dberrors.IsUndefinedTableError(err):
		return fmt.Errorf("%w: %v", apperrors.ErrResourceUnavailable, err)
	case dberrors.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", apperrors.ErrResourceAlreadyExists, err)
	case dberrors.IsForeignKeyError(err):
		return fmt.Errorf("%w: referenced row does not exist", apperrors.ErrBadRequest)
	}
	return fmt.Errorf("query failed: %w", err)
}

// classifyMiss explains a guarded write on table that matched no row. It returns
// ErrResourceNotFound when id does not exist and ErrPermissionDenied when the row
// belongs to another institution. A nil result means the row exists and is in scope.
// institutionID 0 skips the ownership check.
func classifyMiss(ctx context.Context, db DBTX, table string, id, institutionID int64) error {
	if institutionID == 0 {
		var exists bool
		q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, pgx.Identifier{table}.Sanitize())
		if err := db.QueryRow(ctx, q, id).Scan(&exists); err != nil {
			return wrapQueryError(err)
		}
		if !exists {
			return apperrors.ErrResourceNotFound
		}
		return nil
	}

	var owner int64
	q := fmt.Sprintf(`SELECT institution_id FROM %s WHERE id = $1`, pgx.Identifier{table}.Sanitize())
	if err := db.QueryRow(ctx, q, id).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrResourceNotFound
		}
		return wrapQueryError(err)
	}
	if owner != institutionID {
		logger.Warn().Str("table", table).Int64("id", id).Int64("institutionID", institutionID).
			Msg("Write attempted on a row owned by another institution")
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// transition moves a row's status to `to`, but only from one of `from`. A row that
// exists in scope but is in another status yields ErrInvalidTransition.
func transition[T any, S ~string](ctx context.Context, db DBTX, table string, id, institutionID int64, to S, from []S) (*T, error) {
	predecessors := make([]string, 0, len(from))
	for _, s := range from {
		predecessors = append(predecessors, string(s))
	}

	where := squirrel.Eq{"id": id, "status": predecessors}
	if institutionID != 0 {
		where["institution_id"] = institutionID
	}

	q := psql.Update(table).
		Set("status", string(to)).
		Where(where).
		Suffix("RETURNING *")

	item, err := selectOne[T](ctx, db, q)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	if missErr := classifyMiss(ctx, db, table, id, institutionID); missErr != nil {
		return nil, missErr
	}
	return nil, fmt.Errorf("%s %d cannot move to %s: %w", table, id, to, apperrors.ErrInvalidTransition)
}

// updateReturning applies an unguarded update and returns the new row
func updateReturning[T any](ctx context.Context, db DBTX, table string, id, institutionID int64, set map[string]interface{}) (*T, error) {
	where := squirrel.Eq{"id": id}
	if institutionID != 0 {
		where["institution_id"] = institutionID
	}

	q := psql.Update(table).SetMap(set).Where(where).Suffix("RETURNING *")
	item, err := selectOne[T](ctx, db, q)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, apperrors.ErrResourceNotFound) && institutionID != 0 {
		if missErr := classifyMiss(ctx, db, table, id, institutionID); missErr != nil {
			return nil, missErr
		}
	}
	return nil, err
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
