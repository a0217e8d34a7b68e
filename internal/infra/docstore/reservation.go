package docstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/infra"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReservationStore struct {
	coll    *mongo.Collection
	timeout time.Duration
	logger  *slog.Logger
}

var _ shared.ReservationStore = (*ReservationStore)(nil)

func NewReservationStore(db *mongo.Database, timeout time.Duration, logger *slog.Logger) *ReservationStore {
	return &ReservationStore{
		coll:    db.Collection(reservationsCollection),
		timeout: timeout,
		logger:  logger,
	}
}

// EnsureIndexes creates the indexes used by range and code lookups.
func (s *ReservationStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "confirmation_code", Value: 1}}},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to create reservation indexes", err)
	}
	return nil
}

func (s *ReservationStore) Get(ctx context.Context, restaurantID, id uuid.UUID) (*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc reservationDocument
	filter := bson.M{"_id": id.String(), "restaurant_id": restaurantID.String()}
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, wrapErr(s.logger, "failed to find reservation", err)
	}
	res, err := doc.toDomain()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode reservation", err)
	}
	return res, nil
}

func (s *ReservationStore) ListByRange(ctx context.Context, restaurantID uuid.UUID, from, to civil.Date) ([]*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{
		"restaurant_id": restaurantID.String(),
		"date":          bson.M{"$gte": from.String(), "$lte": to.String()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(s.logger, "failed to list reservations", err)
	}
	defer cursor.Close(ctx)

	out, err := decodeReservations(ctx, cursor)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode reservations", err)
	}
	return out, nil
}

// decodeReservations fails on the first unreadable document so range counts
// never silently drop rows.
func decodeReservations(ctx context.Context, cursor *mongo.Cursor) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		res, err := doc.toDomain()
		if err != nil {
			return nil, errs.Wrapf(err, "reservation document %q", doc.ID)
		}
		out = append(out, res)
	}
	return out, cursor.Err()
}

func (s *ReservationStore) Create(ctx context.Context, res *reservation.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, toDocument(res)); err != nil {
		return wrapErr(s.logger, "failed to create reservation", err)
	}
	return nil
}

// Save replaces the document only while its version equals expectedVersion.
func (s *ReservationStore) Save(ctx context.Context, res *reservation.Reservation, expectedVersion int64) (*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	saved := res.WithVersion(expectedVersion + 1)
	doc := toDocument(saved)
	filter := bson.M{"_id": doc.ID, "restaurant_id": doc.RestaurantID, "version": expectedVersion}

	result, err := s.coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return nil, wrapErr(s.logger, "failed to update reservation", err)
	}
	if result.MatchedCount == 1 {
		return saved, nil
	}

	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": doc.ID, "restaurant_id": doc.RestaurantID})
	if err != nil {
		return nil, wrapErr(s.logger, "failed to check reservation", err)
	}
	if n == 0 {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "reservation not found", nil)
	}
	return nil, infra.WrapRepoErr(s.logger, infra.KindVersionConflict, "reservation version changed", nil)
}

func wrapErr(logger *slog.Logger, msg string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	case mongo.IsDuplicateKeyError(err):
		return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
	default:
		return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
	}
}
