package docstore

import (
	"context"
	"log/slog"
	"time"

	"restaurant-console/internal/infra"
	"restaurant-console/internal/usecase/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RestaurantDirectory struct {
	coll       *mongo.Collection
	timeout    time.Duration
	defaultLoc *time.Location
	logger     *slog.Logger
}

var _ shared.RestaurantDirectory = (*RestaurantDirectory)(nil)

func NewRestaurantDirectory(db *mongo.Database, timeout time.Duration, defaultLoc *time.Location, logger *slog.Logger) *RestaurantDirectory {
	return &RestaurantDirectory{
		coll:       db.Collection(restaurantsCollection),
		timeout:    timeout,
		defaultLoc: defaultLoc,
		logger:     logger,
	}
}

func (d *RestaurantDirectory) Get(ctx context.Context, id uuid.UUID) (*shared.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var doc restaurantDocument
	if err := d.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, wrapErr(d.logger, "failed to find restaurant", err)
	}
	return &shared.Restaurant{
		ID:       id,
		Name:     doc.Name,
		Location: infra.ResolveLocation(doc.TimeZone, d.defaultLoc, d.logger),
	}, nil
}
