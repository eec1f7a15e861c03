package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SscSPs/ledgerify/internal/apperrors"
)

// Querier is the common interface implemented by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can start transactions. *pgxpool.Pool and
// pgxmock.PgxPoolIface both satisfy it.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txCtxKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	return ok
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB DB
}

// Q returns the transaction stored in ctx, or the pool when there is none.
func (r *BaseRepository) Q(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.DB
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// mapError converts pgx/pgconn errors to application errors.
// Context errors pass through wrapped but unmapped.
func mapError(err error, entity string, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s %s (%s)", apperrors.ErrDuplicate, entity, id, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s %s references a missing row (%s)", apperrors.ErrNotFound, entity, id, pgErr.ConstraintName)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s %s (%s)", apperrors.ErrValidation, entity, id, pgErr.ConstraintName)
		}
	}

	return apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("database error on %s %s", entity, id), err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// buildError wraps a squirrel ToSql failure.
func buildError(err error, entity string) error {
	return apperrors.NewAppError(http.StatusInternalServerError, "failed to build "+entity+" query", err)
}
