package commands

import (
	"context"
	"log/slog"

	"restaurant-console/internal/domain/notification"
	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/pkg/clock"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/pkg/metrics"
	"restaurant-console/internal/usecase/notify"
	"restaurant-console/internal/usecase/queries"
	"restaurant-console/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/commands/reservation.go -package=commandsmock

var ErrDomainValidation = errs.New("domain validation failed")

type ApplyActionRequest struct {
	RestaurantID  uuid.UUID
	ReservationID uuid.UUID
	Action        reservation.Action
	// Changes is only read for the edit action.
	Changes     *reservation.Changes
	PerformedBy string
}

type CreateReservationRequest struct {
	RestaurantID   uuid.UUID
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	NumberOfGuests int
	Date           civil.Date
	Time           *civil.Time
	// InitialStatus is pending unless staff book on behalf of a guest.
	InitialStatus reservation.Status
	Notes         string
	CreatedBy     string
}

// ReservationResult carries the committed reservation and the receipt of the
// notification fired for it. The receipt never turns the result into an error.
type ReservationResult struct {
	Reservation  *queries.ReservationView
	Notification *notify.Receipt
}

type ReservationCommands interface {
	ApplyAction(ctx context.Context, req ApplyActionRequest) (*ReservationResult, error)
	CreateReservation(ctx context.Context, req CreateReservationRequest) (*ReservationResult, error)
}

type reservationCommandsImpl struct {
	store       shared.ReservationStore
	restaurants shared.RestaurantDirectory
	dispatcher  Dispatcher
	evaluator   *reservation.Evaluator
	clock       clock.Clock
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewReservationCommands(
	store shared.ReservationStore,
	restaurants shared.RestaurantDirectory,
	dispatcher Dispatcher,
	evaluator *reservation.Evaluator,
	clock clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationCommandsImpl{
		store:       store,
		restaurants: restaurants,
		dispatcher:  dispatcher,
		evaluator:   evaluator,
		clock:       clock,
		metrics:     m,
		logger:      logger,
	}
}

func (c *reservationCommandsImpl) ApplyAction(ctx context.Context, req ApplyActionRequest) (*ReservationResult, error) {
	result, err := c.applyAction(ctx, req)
	c.metrics.Transitions.WithLabelValues(req.Action.String(), resultLabel(err)).Inc()
	return result, err
}

func (c *reservationCommandsImpl) applyAction(ctx context.Context, req ApplyActionRequest) (*ReservationResult, error) {
	if err := shared.CheckContext(ctx); err != nil {
		return nil, err
	}

	restaurant, err := c.restaurants.Get(ctx, req.RestaurantID)
	if err != nil {
		return nil, shared.MarkStoreError(err, errs.ErrRestaurantNotFound)
	}
	res, err := c.store.Get(ctx, restaurant.ID, req.ReservationID)
	if err != nil {
		return nil, shared.MarkStoreError(err, errs.ErrReservationNotFound)
	}

	ev := c.evaluator.In(restaurant.Location)
	now := c.clock.Now()
	current := ev.DisplayStatus(res, now)
	expectedVersion := res.Version()

	if err := res.Apply(current, req.Action, req.Changes, req.PerformedBy, now); err != nil {
		if errs.Is(err, reservation.ErrInvalidTransition) || errs.Is(err, reservation.ErrTerminalState) {
			return nil, errs.Wrapf(err, "%s from %s", req.Action, current)
		}
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	// Nothing has been written yet, so a late cancellation leaves no trace.
	if err := shared.CheckContext(ctx); err != nil {
		return nil, err
	}

	saved, err := c.store.Save(ctx, res, expectedVersion)
	if err != nil {
		return nil, shared.MarkStoreError(err, errs.ErrReservationNotFound)
	}

	c.logger.Info("reservation transition applied",
		slog.String("reservation_id", saved.ID().String()),
		slog.String("action", req.Action.String()),
		slog.String("from", current.String()),
		slog.String("to", saved.Status().String()),
		slog.String("by", req.PerformedBy))

	receipt := c.dispatcher.Dispatch(ctx, notification.NewEvent(notification.EventFor(req.Action), saved, restaurant.Name))
	return &ReservationResult{
		Reservation:  queries.NewReservationView(saved, ev, now),
		Notification: receipt,
	}, nil
}

func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, req CreateReservationRequest) (*ReservationResult, error) {
	if err := shared.CheckContext(ctx); err != nil {
		return nil, err
	}

	restaurant, err := c.restaurants.Get(ctx, req.RestaurantID)
	if err != nil {
		return nil, shared.MarkStoreError(err, errs.ErrRestaurantNotFound)
	}

	slot, err := reservation.NewSlot(req.Date, req.Time)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	now := c.clock.Now()
	res, err := reservation.NewReservation(reservation.NewParams{
		RestaurantID:   restaurant.ID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		NumberOfGuests: req.NumberOfGuests,
		Slot:           slot,
		InitialStatus:  req.InitialStatus,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := c.store.Create(ctx, res); err != nil {
		return nil, shared.MarkStoreError(err, errs.ErrRestaurantNotFound)
	}

	c.logger.Info("reservation created",
		slog.String("reservation_id", res.ID().String()),
		slog.String("status", res.Status().String()),
		slog.String("by", req.CreatedBy))

	ev := c.evaluator.In(restaurant.Location)
	receipt := c.dispatcher.Dispatch(ctx, notification.NewEvent(notification.EventCreated, res, restaurant.Name))
	return &ReservationResult{
		Reservation:  queries.NewReservationView(res, ev, now),
		Notification: receipt,
	}, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.Is(err, reservation.ErrInvalidTransition):
		return "invalid_transition"
	case errs.Is(err, reservation.ErrTerminalState):
		return "terminal_state"
	case errs.Is(err, errs.ErrConcurrentModification):
		return "concurrent_modification"
	case errs.Is(err, errs.ErrOperationCanceled):
		return "canceled"
	case errs.Is(err, errs.ErrReservationNotFound), errs.Is(err, errs.ErrRestaurantNotFound):
		return "not_found"
	case errs.Is(err, ErrDomainValidation):
		return "invalid_input"
	default:
		return "error"
	}
}
