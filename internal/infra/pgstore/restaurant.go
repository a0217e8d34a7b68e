package pgstore

import (
	"context"
	"log/slog"
	"time"

	"restaurant-console/internal/infra"
	"restaurant-console/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type RestaurantDirectory struct {
	db         DBTX
	timeout    time.Duration
	defaultLoc *time.Location
	logger     *slog.Logger
}

var _ shared.RestaurantDirectory = (*RestaurantDirectory)(nil)

func NewRestaurantDirectory(db DBTX, timeout time.Duration, defaultLoc *time.Location, logger *slog.Logger) *RestaurantDirectory {
	return &RestaurantDirectory{
		db:         db,
		timeout:    timeout,
		defaultLoc: defaultLoc,
		logger:     logger,
	}
}

func (d *RestaurantDirectory) Get(ctx context.Context, id uuid.UUID) (*shared.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	query, args, err := psql.Select("id", "name", "timezone").
		From("restaurants").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(d.logger, infra.KindDBFailure, "failed to build restaurant query", err)
	}

	var (
		r        shared.Restaurant
		timezone string
	)
	if err := d.db.QueryRow(ctx, query, args...).Scan(&r.ID, &r.Name, &timezone); err != nil {
		return nil, wrapErr(d.logger, "failed to find restaurant", err)
	}
	r.Location = infra.ResolveLocation(timezone, d.defaultLoc, d.logger)
	return &r, nil
}
