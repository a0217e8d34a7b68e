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
	"restaurant-console/internal/infra/pgstore"
	"restaurant-console/tests/common/builder"
	"restaurant-console/tests/common/dbtest"
	"restaurant-console/tests/e2e"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PGStoreSuite struct {
	e2e.SharedSuite
	store *pgstore.ReservationStore
	dir   *pgstore.RestaurantDirectory
}

func TestPGStoreSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PGStoreSuite))
}

func (s *PGStoreSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = pgstore.NewReservationStore(s.DB, 5*time.Second, logger)
	s.dir = pgstore.NewRestaurantDirectory(s.DB, 5*time.Second, time.UTC, logger)
}

func (s *PGStoreSuite) newReservation(b *builder.ReservationBuilder) *reservation.Reservation {
	res, err := b.BuildDomain()
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), res))
	return res
}

func (s *PGStoreSuite) TestSave() {
	ctx := context.Background()
	at := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)

	s.Run("Normal case: save bumps the version and keeps history", func() {
		t := s.T()

		res := s.newReservation(builder.NewReservationBuilder())
		require.NoError(t, res.Apply(res.Status(), reservation.ActionConfirm, nil, "host-1", at))

		saved, err := s.store.Save(ctx, res, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), saved.Version())

		got, err := s.store.Get(ctx, builder.DefaultRestaurantID, res.ID())
		require.NoError(t, err)
		if diff := cmp.Diff(saved.Snapshot(), got.Snapshot()); diff != "" {
			t.Errorf("stored reservation mismatch (-saved +got):\n%s", diff)
		}
	})

	s.Run("Error case: stale version is a conflict and nothing is written", func() {
		t := s.T()

		res := s.newReservation(builder.NewReservationBuilder())
		first, err := s.store.Get(ctx, builder.DefaultRestaurantID, res.ID())
		require.NoError(t, err)
		second, err := s.store.Get(ctx, builder.DefaultRestaurantID, res.ID())
		require.NoError(t, err)

		require.NoError(t, first.Apply(first.Status(), reservation.ActionConfirm, nil, "host-1", at))
		_, err = s.store.Save(ctx, first, first.Version())
		require.NoError(t, err)

		require.NoError(t, second.Apply(second.Status(), reservation.ActionReject, nil, "host-2", at))
		_, err = s.store.Save(ctx, second, second.Version())
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindVersionConflict))

		got, err := s.store.Get(ctx, builder.DefaultRestaurantID, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, got.Status())
		assert.Equal(t, int64(2), dbtest.ReservationVersion(t, s.DB, res.ID()))
	})

	s.Run("Error case: saving a missing reservation is not found", func() {
		t := s.T()

		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		_, err = s.store.Save(ctx, res, 1)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	s.Run("Error case: other restaurants cannot read the reservation", func() {
		t := s.T()

		res := s.newReservation(builder.NewReservationBuilder())

		_, err := s.store.Get(ctx, uuid.New(), res.ID())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func (s *PGStoreSuite) TestListByRange() {
	s.Run("Normal case: ordered by date then time with untimed last", func() {
		t := s.T()
		ctx := context.Background()

		day := civil.Date{Year: 2030, Month: time.March, Day: 4}
		restaurantID := dbtest.CreateTestRestaurant(t, s.DB, "Range Bistro", "Europe/Paris")
		on := func(d civil.Date, tod, name string) *builder.ReservationBuilder {
			return builder.NewReservationBuilder().WithRestaurant(restaurantID).WithSlot(d, tod).WithName(name)
		}

		s.newReservation(on(day, "", "Untimed"))
		s.newReservation(on(day, "20:00", "Late dinner"))
		s.newReservation(on(day, "12:00", "Lunch"))
		s.newReservation(on(day.AddDays(1), "09:00", "Next day"))
		s.newReservation(on(day.AddDays(5), "09:00", "Out of range"))

		list, err := s.store.ListByRange(ctx, restaurantID, day, day.AddDays(1))
		require.NoError(t, err)

		names := make([]string, 0, len(list))
		for _, r := range list {
			names = append(names, r.CustomerName())
		}
		assert.Equal(t, []string{"Lunch", "Late dinner", "Untimed", "Next day"}, names)
	})
}

func (s *PGStoreSuite) TestRestaurantDirectory() {
	s.Run("Normal case: stored zone is resolved", func() {
		t := s.T()

		r, err := s.dir.Get(context.Background(), builder.DefaultRestaurantID)
		require.NoError(t, err)
		assert.Equal(t, dbtest.DefaultRestaurantName, r.Name)
		assert.Equal(t, dbtest.DefaultRestaurantTimeZone, r.Location.String())
	})

	s.Run("Normal case: unknown zone falls back to the default", func() {
		t := s.T()

		id := dbtest.CreateTestRestaurant(t, s.DB, "Nowhere Diner", "Mars/Olympus")

		r, err := s.dir.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, r.Location)
	})

	s.Run("Error case: missing restaurant", func() {
		t := s.T()

		_, err := s.dir.Get(context.Background(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
