package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"restaurant-console/internal/domain/notification"
	"restaurant-console/internal/infra"
	"restaurant-console/internal/pkg/clock"
	"restaurant-console/internal/usecase/notify"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	jobKindEmail    = "email"
	jobStatusQueued = "queued"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Outbox queues messages in notification_jobs for a mailer worker to pick up.
// A message counts as delivered once the job row is written.
type Outbox struct {
	db     Execer
	clock  clock.Clock
	logger *slog.Logger
}

var _ notify.Gateway = (*Outbox)(nil)

func NewOutbox(db Execer, clk clock.Clock, logger *slog.Logger) *Outbox {
	return &Outbox{db: db, clock: clk, logger: logger}
}

func (o *Outbox) Send(ctx context.Context, msg notification.Message) (notify.Delivery, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return notify.Delivery{}, infra.WrapRepoErr(o.logger, infra.KindDBFailure, "failed to encode notification payload", err)
	}

	now := o.clock.Now()
	query, args, err := psql.Insert("notification_jobs").
		Columns("kind", "topic", "payload", "run_at", "status").
		Values(
			jobKindEmail,
			string(msg.Template),
			payload,
			pgtype.Timestamptz{Time: now, Valid: true},
			jobStatusQueued,
		).
		ToSql()
	if err != nil {
		return notify.Delivery{}, infra.WrapRepoErr(o.logger, infra.KindDBFailure, "failed to build notification job insert", err)
	}

	if _, err := o.db.Exec(ctx, query, args...); err != nil {
		return notify.Delivery{}, infra.WrapRepoErr(o.logger, infra.KindDBFailure, "failed to create notification job", err)
	}
	return notify.Delivery{Delivered: true}, nil
}
