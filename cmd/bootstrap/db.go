package bootstrap

import (
	"log/slog"

	"restaurant-console/internal/infra/db"
	"restaurant-console/internal/pkg/config"

	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewConnections,
	),
)

// NewConnections registers the lazy connection set; backends are dialed by
// the components that need them and closed when the app stops.
func NewConnections(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *db.Connections {
	conns := db.NewConnections(cfg, logger)

	lc.Append(fx.Hook{
		OnStop: conns.Close,
	})

	return conns
}
