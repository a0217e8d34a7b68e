package queries

import (
	"context"
	"log/slog"

	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// PurgeCandidates lists terminal reservations in [from, to] that are past the
// retention window. Deleting them is left to an external process.
func (q *reservationQueriesImpl) PurgeCandidates(ctx context.Context, restaurantID uuid.UUID, from, to civil.Date) ([]*ReservationView, error) {
	if err := validDate(from); err != nil {
		return nil, err
	}
	if err := validDate(to); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return []*ReservationView{}, nil
	}
	restaurant, ev, err := q.restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	list, err := q.store.ListByRange(ctx, restaurant.ID, from, to)
	if err != nil {
		return nil, errs.Wrapf(shared.MarkStoreError(err, errs.ErrRestaurantNotFound), "purge scan %s..%s", from, to)
	}

	now := q.clock.Now()
	out := []*ReservationView{}
	for _, r := range list {
		if ev.PurgeEligible(r, now) {
			out = append(out, NewReservationView(r, ev, now))
		}
	}

	q.logger.Info("purge candidates evaluated",
		slog.String("restaurant_id", restaurant.ID.String()),
		slog.Int("scanned", len(list)),
		slog.Int("eligible", len(out)))
	return out, nil
}
