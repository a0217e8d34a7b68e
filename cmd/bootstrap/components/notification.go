package components

import (
	"context"
	"log/slog"

	"restaurant-console/internal/infra/db"
	"restaurant-console/internal/infra/gateway"
	"restaurant-console/internal/pkg/clock"
	"restaurant-console/internal/pkg/config"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/pkg/metrics"
	"restaurant-console/internal/usecase/commands"
	"restaurant-console/internal/usecase/notify"

	"go.uber.org/fx"
)

const (
	GatewayOutbox = "outbox"
	GatewayRedis  = "redis"
	GatewayTasks  = "tasks"
)

var NotificationModule = fx.Module("notification",
	fx.Provide(
		NewGateway,
		fx.Annotate(
			NewDispatcher,
			fx.As(new(commands.Dispatcher)),
		),
	),
)

// NewGateway returns a nil gateway when none is configured; the dispatcher
// then records every notification as skipped.
func NewGateway(conns *db.Connections, cfg config.Config, clk clock.Clock, logger *slog.Logger) (notify.Gateway, error) {
	switch cfg.Notification.Gateway {
	case "":
		logger.Warn("no notification gateway configured")
		return nil, nil

	case GatewayOutbox:
		pool, err := conns.Postgres()
		if err != nil {
			return nil, err
		}
		return gateway.NewOutbox(pool, clk, logger), nil

	case GatewayRedis:
		client, err := conns.Redis(context.Background())
		if err != nil {
			return nil, err
		}
		return gateway.NewRedisQueue(client, cfg.Notification.RedisQueueKey), nil

	case GatewayTasks:
		return gateway.NewTaskQueue(conns.Tasks(), cfg.Notification.TaskQueue), nil

	default:
		return nil, errs.Newf("unknown NOTIFY_GATEWAY %q", cfg.Notification.Gateway)
	}
}

func NewDispatcher(lc fx.Lifecycle, gw notify.Gateway, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) *notify.Dispatcher {
	d := notify.NewDispatcher(gw, logger, m, cfg.Notification.SendTimeout)

	lc.Append(fx.Hook{
		OnStop: d.Shutdown,
	})

	return d
}
