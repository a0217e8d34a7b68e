package components

import (
	"time"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/pkg/clock"
	"restaurant-console/internal/pkg/config"
	"restaurant-console/internal/usecase/commands"
	"restaurant-console/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewEvaluator,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
	),
)

func NewEvaluator(cfg config.Config, loc *time.Location) *reservation.Evaluator {
	return reservation.NewEvaluator(reservation.Policy{
		LateGrace:     cfg.Lifecycle.LateGrace,
		RetentionDays: cfg.Lifecycle.RetentionDays,
	}, loc)
}
