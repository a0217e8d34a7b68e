package pgstore

import (
	"context"
	"errors"
	"log/slog"

	"restaurant-console/internal/infra"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DBTX is the subset of *pgxpool.Pool used by the stores.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// wrapErr maps a pgx error onto a repository error kind.
func wrapErr(logger *slog.Logger, msg string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	case errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation:
		return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
	case errors.As(err, &pgErr) && pgErr.Code == pgErrCodeForeignKeyViolation:
		return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, msg, err)
	default:
		return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
	}
}
