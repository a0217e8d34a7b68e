package shared

import (
	"context"
	"time"

	"restaurant-console/internal/domain/reservation"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/shared/ports.go -package=sharedmock

// ReservationStore persists reservations scoped by restaurant. Save must only
// write when the stored version equals expectedVersion and returns the
// reservation carrying its new version.
type ReservationStore interface {
	Get(ctx context.Context, restaurantID, id uuid.UUID) (*reservation.Reservation, error)
	ListByRange(ctx context.Context, restaurantID uuid.UUID, from, to civil.Date) ([]*reservation.Reservation, error)
	Save(ctx context.Context, res *reservation.Reservation, expectedVersion int64) (*reservation.Reservation, error)
	Create(ctx context.Context, res *reservation.Reservation) error
}

// Restaurant is the slice of restaurant settings the lifecycle core needs.
type Restaurant struct {
	ID       uuid.UUID
	Name     string
	Location *time.Location
}

type RestaurantDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*Restaurant, error)
}
