package queries

import (
	"context"
	"time"

	"restaurant-console/internal/domain/calendar"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

func (q *reservationQueriesImpl) DayView(ctx context.Context, restaurantID uuid.UUID, date civil.Date, search string) (*DayView, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	restaurant, ev, err := q.restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	list, err := q.store.ListByRange(ctx, restaurant.ID, date, date)
	if err != nil {
		return nil, errs.Wrapf(shared.MarkStoreError(err, errs.ErrRestaurantNotFound), "day %s", date)
	}

	start := time.Now()
	now := q.clock.Now()
	detail, err := calendar.NewAggregator(ev).Day(date, list, now, calendar.Search(search))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDate)
	}

	entries := make([]DayEntry, 0, len(detail.Entries))
	for _, e := range detail.Entries {
		entries = append(entries, DayEntry{
			Reservation: NewReservationView(e.Reservation, ev, now),
			Matches:     e.Matches,
		})
	}
	q.metrics.AggregationDuration.WithLabelValues("day").Observe(time.Since(start).Seconds())

	return &DayView{
		RestaurantName: restaurant.Name,
		Bucket:         detail.Bucket,
		Reservations:   entries,
	}, nil
}

func (q *reservationQueriesImpl) MonthView(ctx context.Context, restaurantID uuid.UUID, year int, month time.Month, search string) (*MonthView, error) {
	from, to, err := calendar.GridRange(year, month)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDate)
	}
	restaurant, ev, err := q.restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	// Padding days belong to adjacent months but still show their real counts.
	list, err := q.store.ListByRange(ctx, restaurant.ID, from, to)
	if err != nil {
		return nil, errs.Wrapf(shared.MarkStoreError(err, errs.ErrRestaurantNotFound), "month %d-%02d", year, month)
	}

	start := time.Now()
	grid, err := calendar.NewAggregator(ev).Month(year, month, list, q.clock.Now(), calendar.Search(search))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDate)
	}
	q.metrics.AggregationDuration.WithLabelValues("month").Observe(time.Since(start).Seconds())

	return &MonthView{RestaurantName: restaurant.Name, Grid: grid}, nil
}
