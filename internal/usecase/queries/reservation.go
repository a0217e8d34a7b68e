package queries

import (
	"context"
	"log/slog"
	"time"

	"restaurant-console/internal/domain/calendar"
	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/pkg/clock"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/pkg/metrics"
	"restaurant-console/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/queries/reservation.go -package=queriesmock

type ReservationQueries interface {
	GetReservation(ctx context.Context, restaurantID, id uuid.UUID) (*ReservationView, error)
	DayView(ctx context.Context, restaurantID uuid.UUID, date civil.Date, search string) (*DayView, error)
	MonthView(ctx context.Context, restaurantID uuid.UUID, year int, month time.Month, search string) (*MonthView, error)
	PurgeCandidates(ctx context.Context, restaurantID uuid.UUID, from, to civil.Date) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	store       shared.ReservationStore
	restaurants shared.RestaurantDirectory
	evaluator   *reservation.Evaluator
	clock       clock.Clock
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewReservationQueries(
	store shared.ReservationStore,
	restaurants shared.RestaurantDirectory,
	evaluator *reservation.Evaluator,
	clock clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) ReservationQueries {
	return &reservationQueriesImpl{
		store:       store,
		restaurants: restaurants,
		evaluator:   evaluator,
		clock:       clock,
		metrics:     m,
		logger:      logger,
	}
}

func (q *reservationQueriesImpl) GetReservation(ctx context.Context, restaurantID, id uuid.UUID) (*ReservationView, error) {
	if err := shared.CheckContext(ctx); err != nil {
		return nil, err
	}
	restaurant, ev, err := q.restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	res, err := q.store.Get(ctx, restaurant.ID, id)
	if err != nil {
		return nil, shared.MarkStoreError(err, errs.ErrReservationNotFound)
	}
	return NewReservationView(res, ev, q.clock.Now()), nil
}

func (q *reservationQueriesImpl) restaurant(ctx context.Context, id uuid.UUID) (*shared.Restaurant, *reservation.Evaluator, error) {
	restaurant, err := q.restaurants.Get(ctx, id)
	if err != nil {
		return nil, nil, shared.MarkStoreError(err, errs.ErrRestaurantNotFound)
	}
	return restaurant, q.evaluator.In(restaurant.Location), nil
}

func validDate(d civil.Date) error {
	if d == (civil.Date{}) || !d.IsValid() {
		return errs.Mark(calendar.ErrInvalidDate, errs.ErrInvalidDate)
	}
	return nil
}
