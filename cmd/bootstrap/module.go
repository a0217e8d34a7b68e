package bootstrap

import (
	"restaurant-console/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule wires everything below the HTTP layer. CLI commands that only
// need the use cases start this alone.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.MetricsModule,
	components.PersistenceModule,
	components.NotificationModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	CoreModule,
	components.HandlerModule,
)
