package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"dashboard/internal/errors"
)

// HandleStorageError converts database errors to structured app errors
func HandleStorageError(operation string, err error) error {
	return errors.NewStorageError(operation, err)
}

// HandleNoRowsError handles sql.ErrNoRows errors consistently
func HandleNoRowsError(err error, entityType string, id string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(entityType, id)
	}
	return err
}

// Execute executes a statement that returns no rows
func Execute(ctx context.Context, db *sql.DB, operation string, query string, args ...interface{}) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return HandleStorageError(operation, err)
	}
	return nil
}

// QuerySingle executes a query that returns a single row and scans it
func QuerySingle[T any](ctx context.Context, db *sql.DB, query string, scanFunc func(Scanner) (*T, error), entityType string, id string, args ...interface{}) (*T, error) {
	row := db.QueryRowContext(ctx, query, args...)
	result, err := scanFunc(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError(entityType, id)
		}
		return nil, HandleStorageError("scan "+entityType, err)
	}
	return result, nil
}

// QueryMultiple executes a query that returns multiple rows and scans them
func QueryMultiple[T any](ctx context.Context, db *sql.DB, query string, scanFunc func(Rows) ([]*T, error), entityType string, args ...interface{}) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, HandleStorageError("query "+entityType, err)
	}
	defer rows.Close()

	results, err := scanFunc(rows)
	if err != nil {
		return nil, HandleStorageError("scan "+entityType, err)
	}

	return results, nil
}
