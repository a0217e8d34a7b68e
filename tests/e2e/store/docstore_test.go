//go:build e2e

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/infra"
	"restaurant-console/internal/infra/docstore"
	"restaurant-console/tests/common/builder"
	"restaurant-console/tests/e2e"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := e2e.SetupMongoDatabase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := docstore.NewReservationStore(db, 5*time.Second, logger)
	require.NoError(t, store.EnsureIndexes(ctx))
	dir := docstore.NewRestaurantDirectory(db, 5*time.Second, time.UTC, logger)

	restaurantID := uuid.New()
	_, err := db.Collection("restaurants").InsertOne(ctx, bson.M{
		"_id":      restaurantID.String(),
		"name":     "Harbour Grill",
		"timezone": "Australia/Sydney",
	})
	require.NoError(t, err)

	at := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	newReservation := func(t *testing.T, b *builder.ReservationBuilder) *reservation.Reservation {
		t.Helper()
		res, err := b.WithRestaurant(restaurantID).BuildDomain()
		require.NoError(t, err)
		require.NoError(t, store.Create(ctx, res))
		return res
	}

	t.Run("restaurant zone is resolved", func(t *testing.T) {
		r, err := dir.Get(ctx, restaurantID)
		require.NoError(t, err)
		assert.Equal(t, "Harbour Grill", r.Name)
		assert.Equal(t, "Australia/Sydney", r.Location.String())

		_, err = dir.Get(ctx, uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("save is version conditioned", func(t *testing.T) {
		res := newReservation(t, builder.NewReservationBuilder())
		first, err := store.Get(ctx, restaurantID, res.ID())
		require.NoError(t, err)
		second, err := store.Get(ctx, restaurantID, res.ID())
		require.NoError(t, err)

		require.NoError(t, first.Apply(first.Status(), reservation.ActionConfirm, nil, "host-1", at))
		saved, err := store.Save(ctx, first, first.Version())
		require.NoError(t, err)
		assert.Equal(t, int64(2), saved.Version())

		require.NoError(t, second.Apply(second.Status(), reservation.ActionCancel, nil, "host-2", at))
		_, err = store.Save(ctx, second, second.Version())
		assert.True(t, infra.IsKind(err, infra.KindVersionConflict))

		got, err := store.Get(ctx, restaurantID, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, got.Status())
		assert.Len(t, got.History(), 2)
	})

	t.Run("missing reservation", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().WithRestaurant(restaurantID).BuildDomain()
		require.NoError(t, err)

		_, err = store.Save(ctx, res, 1)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))

		_, err = store.Get(ctx, restaurantID, res.ID())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("range is ordered by date then time", func(t *testing.T) {
		day := civil.Date{Year: 2031, Month: time.January, Day: 20}
		newReservation(t, builder.NewReservationBuilder().WithSlot(day, "21:00").WithName("Supper"))
		newReservation(t, builder.NewReservationBuilder().WithSlot(day, "08:30").WithName("Breakfast"))
		newReservation(t, builder.NewReservationBuilder().WithSlot(day.AddDays(1), "12:00").WithName("Tomorrow"))
		newReservation(t, builder.NewReservationBuilder().WithSlot(day.AddDays(-1), "12:00").WithName("Yesterday"))

		list, err := store.ListByRange(ctx, restaurantID, day, day.AddDays(1))
		require.NoError(t, err)

		names := make([]string, 0, len(list))
		for _, r := range list {
			names = append(names, r.CustomerName())
		}
		assert.Equal(t, []string{"Breakfast", "Supper", "Tomorrow"}, names)
	})

	t.Run("unreadable document fails the range", func(t *testing.T) {
		day := civil.Date{Year: 2031, Month: time.March, Day: 3}
		newReservation(t, builder.NewReservationBuilder().WithSlot(day, "19:00"))
		_, err := db.Collection("reservations").InsertOne(ctx, bson.M{
			"_id":           "corrupt-1",
			"restaurant_id": restaurantID.String(),
			"date":          day.String(),
			"time":          "20:00",
			"status":        "confirmed",
		})
		require.NoError(t, err)

		list, err := store.ListByRange(ctx, restaurantID, day, day)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		assert.Nil(t, list)
	})
}
