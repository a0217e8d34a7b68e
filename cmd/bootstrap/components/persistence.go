package components

import (
	"context"
	"log/slog"
	"time"

	"restaurant-console/internal/infra"
	"restaurant-console/internal/infra/db"
	"restaurant-console/internal/infra/docstore"
	"restaurant-console/internal/infra/pgstore"
	"restaurant-console/internal/pkg/config"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/shared"

	"go.uber.org/fx"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDefaultLocation,
		NewStores,
		func(s Stores) shared.ReservationStore { return s.Reservations },
		func(s Stores) shared.RestaurantDirectory { return s.Restaurants },
	),
)

type Stores struct {
	Reservations shared.ReservationStore
	Restaurants  shared.RestaurantDirectory
}

// NewDefaultLocation is the zone used for restaurants without a valid one.
func NewDefaultLocation(cfg config.Config, logger *slog.Logger) *time.Location {
	return infra.ResolveLocation(cfg.Lifecycle.DefaultTimeZone, time.UTC, logger)
}

func NewStores(conns *db.Connections, cfg config.Config, loc *time.Location, logger *slog.Logger) (Stores, error) {
	timeout := cfg.Store.Timeout

	switch cfg.Store.Driver {
	case StoreDriverPostgres, "":
		pool, err := conns.Postgres()
		if err != nil {
			return Stores{}, err
		}
		return Stores{
			Reservations: pgstore.NewReservationStore(pool, timeout, logger),
			Restaurants:  pgstore.NewRestaurantDirectory(pool, timeout, loc, logger),
		}, nil

	case StoreDriverMongo:
		ctx := context.Background()
		database, err := conns.Mongo(ctx)
		if err != nil {
			return Stores{}, err
		}
		reservations := docstore.NewReservationStore(database, timeout, logger)
		if err := reservations.EnsureIndexes(ctx); err != nil {
			return Stores{}, err
		}
		return Stores{
			Reservations: reservations,
			Restaurants:  docstore.NewRestaurantDirectory(database, timeout, loc, logger),
		}, nil

	default:
		return Stores{}, errs.Newf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
