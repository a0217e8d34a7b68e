package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"restaurant-console/internal/domain/notification"
	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/infra"
	"restaurant-console/internal/pkg/clock"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/pkg/metrics"
	"restaurant-console/internal/usecase/commands"
	"restaurant-console/internal/usecase/notify"
	"restaurant-console/internal/usecase/shared"
	"restaurant-console/tests/common/builder"
	commandsmock "restaurant-console/tests/mock/commands"
	notifymock "restaurant-console/tests/mock/notify"
	sharedmock "restaurant-console/tests/mock/shared"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	slotDay = civil.Date{Year: 2025, Month: time.June, Day: 10}
	// two hours before the default 19:30 slot
	beforeSlot = time.Date(2025, time.June, 10, 17, 30, 0, 0, time.UTC)
	restaurant = &shared.Restaurant{ID: builder.DefaultRestaurantID, Name: "Chez Nous", Location: time.UTC}
	discard    = slog.New(slog.DiscardHandler)
)

type fixture struct {
	store       *sharedmock.MockReservationStore
	restaurants *sharedmock.MockRestaurantDirectory
	dispatcher  *commandsmock.MockDispatcher
	clock       *clock.MockClock
	metrics     *metrics.Metrics
	cmds        commands.ReservationCommands
	// skipper resolves receipts without a gateway for dispatcher expectations
	skipper *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		store:       sharedmock.NewMockReservationStore(ctrl),
		restaurants: sharedmock.NewMockRestaurantDirectory(ctrl),
		dispatcher:  commandsmock.NewMockDispatcher(ctrl),
		clock:       clock.NewMockClock(beforeSlot),
		metrics:     metrics.NewNop(),
	}
	f.skipper = notify.NewDispatcher(nil, discard, metrics.NewNop(), time.Second)
	f.cmds = commands.NewReservationCommands(
		f.store, f.restaurants, f.dispatcher,
		reservation.NewEvaluator(reservation.Policy{}, time.UTC),
		f.clock, f.metrics, discard,
	)
	return f
}

func (f *fixture) expectLoad(res *reservation.Reservation) {
	f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)
	f.store.EXPECT().Get(gomock.Any(), restaurant.ID, res.ID()).Return(res, nil).Times(1)
}

func (f *fixture) expectSave(expectedVersion int64) {
	f.store.EXPECT().Save(gomock.Any(), gomock.Any(), expectedVersion).
		DoAndReturn(func(_ context.Context, res *reservation.Reservation, v int64) (*reservation.Reservation, error) {
			return res.WithVersion(v + 1), nil
		}).Times(1)
}

// expectDispatch records every dispatched event into got.
func (f *fixture) expectDispatch(got *[]notification.Event) {
	f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e notification.Event) *notify.Receipt {
			*got = append(*got, e)
			return f.skipper.Dispatch(ctx, e)
		}).Times(1)
}

func apply(res *reservation.Reservation, action reservation.Action) commands.ApplyActionRequest {
	return commands.ApplyActionRequest{
		RestaurantID:  restaurant.ID,
		ReservationID: res.ID(),
		Action:        action,
		PerformedBy:   "staff-9",
	}
}

func TestApplyAction(t *testing.T) {
	t.Run("success: pending confirm sends one confirmation", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().WithVersion(3).BuildRestored()
		var events []notification.Event

		f.expectLoad(res)
		f.expectSave(3)
		f.expectDispatch(&events)

		result, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))
		require.NoError(t, err)

		assert.Equal(t, "confirmed", result.Reservation.Status)
		assert.Equal(t, "confirmed", result.Reservation.DisplayStatus)
		assert.Equal(t, int64(4), result.Reservation.Version)
		require.NotNil(t, result.Notification)

		require.Len(t, events, 1)
		assert.Equal(t, notification.EventFor(reservation.ActionConfirm), events[0].Type)
		assert.Equal(t, "Chez Nous", events[0].RestaurantName)
		tpl, ok := notification.TemplateFor(events[0].Reservation.Status)
		require.True(t, ok)
		assert.Equal(t, notification.TemplateConfirmation, tpl)

		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("confirm", "ok")))
	})

	t.Run("success: late booking is activated through the late row", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().WithStatus(reservation.StatusConfirmed).BuildRestored()
		f.clock.Set(beforeSlot.Add(4 * time.Hour))
		var events []notification.Event

		f.expectLoad(res)
		f.expectSave(1)
		f.expectDispatch(&events)

		result, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionActivate))
		require.NoError(t, err)

		assert.Equal(t, "active", result.Reservation.Status)
		history := result.Reservation.History
		require.Len(t, history, 2)
		assert.Equal(t, "staff-9", history[1].By)
	})

	t.Run("success: editing a late booking keeps it confirmed", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().WithStatus(reservation.StatusConfirmed).BuildRestored()
		f.clock.Set(beforeSlot.Add(4 * time.Hour))
		var events []notification.Event

		f.expectLoad(res)
		f.expectSave(1)
		f.expectDispatch(&events)

		guests := 5
		req := apply(res, reservation.ActionEdit)
		req.Changes = &reservation.Changes{NumberOfGuests: &guests}

		result, err := f.cmds.ApplyAction(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "confirmed", result.Reservation.Status)
		// the slot is still in the past
		assert.Equal(t, "late", result.Reservation.DisplayStatus)
		assert.Equal(t, 5, result.Reservation.NumberOfGuests)
	})

	t.Run("error: confirm on a late booking is an invalid transition", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().WithStatus(reservation.StatusConfirmed).BuildRestored()
		f.clock.Set(beforeSlot.Add(4 * time.Hour))

		f.expectLoad(res)

		_, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))

		assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
	})

	t.Run("error: cancel on an active booking is rejected", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().WithStatus(reservation.StatusActive).BuildRestored()

		f.expectLoad(res)

		_, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionCancel))

		assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("cancel", "invalid_transition")))
	})

	t.Run("error: terminal reservations reject every action", func(t *testing.T) {
		for _, st := range []reservation.Status{reservation.StatusFinished, reservation.StatusCanceled, reservation.StatusRejected} {
			for _, action := range reservation.AllActions {
				f := newFixture(t)
				res := builder.NewReservationBuilder().WithStatus(st).BuildRestored()
				before := res.Snapshot()

				f.expectLoad(res)

				_, err := f.cmds.ApplyAction(context.Background(), apply(res, action))

				assert.ErrorIs(t, err, reservation.ErrTerminalState, "%s/%s", st, action)
				assert.Equal(t, before, res.Snapshot())
			}
		}
	})

	t.Run("error: invalid edit is a domain validation error", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().BuildRestored()

		f.expectLoad(res)

		zero := 0
		req := apply(res, reservation.ActionEdit)
		req.Changes = &reservation.Changes{NumberOfGuests: &zero}

		_, err := f.cmds.ApplyAction(context.Background(), req)

		assert.ErrorIs(t, err, commands.ErrDomainValidation)
		assert.ErrorIs(t, err, reservation.ErrInvalidGuestCount)
	})

	t.Run("error: version mismatch surfaces concurrent modification without notifying", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().WithVersion(2).BuildRestored()

		f.expectLoad(res)
		f.store.EXPECT().Save(gomock.Any(), gomock.Any(), int64(2)).
			Return(nil, infra.RepositoryError{Kind: infra.KindVersionConflict}).Times(1)

		_, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))

		assert.ErrorIs(t, err, errs.ErrConcurrentModification)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("confirm", "concurrent_modification")))
	})

	t.Run("error: not found lookups", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().BuildRestored()

		f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)
		f.store.EXPECT().Get(gomock.Any(), restaurant.ID, res.ID()).
			Return(nil, infra.RepositoryError{Kind: infra.KindNotFound}).Times(1)

		_, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))
		assert.ErrorIs(t, err, errs.ErrReservationNotFound)

		f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).
			Return(nil, infra.RepositoryError{Kind: infra.KindNotFound}).Times(1)

		_, err = f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))
		assert.ErrorIs(t, err, errs.ErrRestaurantNotFound)
	})

	t.Run("error: canceled context touches nothing", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().BuildRestored()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.cmds.ApplyAction(ctx, apply(res, reservation.ActionConfirm))

		assert.ErrorIs(t, err, errs.ErrOperationCanceled)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("confirm", "canceled")))
	})

	t.Run("error: store deadline is reported as canceled", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().BuildRestored()

		f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)
		f.store.EXPECT().Get(gomock.Any(), restaurant.ID, res.ID()).
			Return(nil, errs.Wrap(context.DeadlineExceeded, "get reservation")).Times(1)

		_, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))

		assert.ErrorIs(t, err, errs.ErrOperationCanceled)
	})

	t.Run("error: other store failures", func(t *testing.T) {
		f := newFixture(t)
		res := builder.NewReservationBuilder().BuildRestored()

		f.expectLoad(res)
		f.store.EXPECT().Save(gomock.Any(), gomock.Any(), int64(1)).
			Return(nil, infra.RepositoryError{Kind: infra.KindDBFailure}).Times(1)

		_, err := f.cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))

		assert.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})
}

func TestApplyActionWithFailingGateway(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := sharedmock.NewMockReservationStore(ctrl)
	restaurants := sharedmock.NewMockRestaurantDirectory(ctrl)
	gw := notifymock.NewMockGateway(ctrl)
	m := metrics.NewNop()
	dispatcher := notify.NewDispatcher(gw, discard, m, time.Second)
	cmds := commands.NewReservationCommands(
		store, restaurants, dispatcher,
		reservation.NewEvaluator(reservation.Policy{}, time.UTC),
		clock.NewMockClock(beforeSlot), m, discard,
	)
	res := builder.NewReservationBuilder().BuildRestored()

	restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)
	store.EXPECT().Get(gomock.Any(), restaurant.ID, res.ID()).Return(res, nil).Times(1)
	store.EXPECT().Save(gomock.Any(), gomock.Any(), int64(1)).
		DoAndReturn(func(_ context.Context, r *reservation.Reservation, v int64) (*reservation.Reservation, error) {
			return r.WithVersion(v + 1), nil
		}).Times(1)
	gw.EXPECT().Send(gomock.Any(), gomock.Any()).
		Return(notify.Delivery{}, errors.New("provider unavailable")).Times(1)

	result, err := cmds.ApplyAction(context.Background(), apply(res, reservation.ActionConfirm))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	outcome, err := result.Notification.Wait(ctx)
	require.NoError(t, err)

	assert.True(t, outcome.Failed())
	assert.Equal(t, "confirmed", result.Reservation.Status)
	assert.Equal(t, int64(2), result.Reservation.Version)
}

func TestCreateReservation(t *testing.T) {
	dinner := civil.Time{Hour: 20}

	valid := func() commands.CreateReservationRequest {
		return commands.CreateReservationRequest{
			RestaurantID:   restaurant.ID,
			CustomerName:   "Grace Hopper",
			CustomerEmail:  "grace@example.com",
			NumberOfGuests: 3,
			Date:           slotDay,
			Time:           &dinner,
			CreatedBy:      "staff-9",
		}
	}

	t.Run("success: pending by default with acknowledgement", func(t *testing.T) {
		f := newFixture(t)
		var events []notification.Event

		f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)
		f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		f.expectDispatch(&events)

		result, err := f.cmds.CreateReservation(context.Background(), valid())
		require.NoError(t, err)

		assert.Equal(t, "pending", result.Reservation.Status)
		assert.Equal(t, "20:00", result.Reservation.Time)
		assert.Equal(t, "2025-06-10", result.Reservation.Date)
		require.Len(t, events, 1)
		assert.Equal(t, notification.EventCreated, events[0].Type)
		assert.Equal(t, notify.ReasonGatewayUnconfigured, result.Notification.Outcome().Reason)
	})

	t.Run("success: staff booking starts confirmed", func(t *testing.T) {
		f := newFixture(t)
		var events []notification.Event

		f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)
		f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		f.expectDispatch(&events)

		req := valid()
		req.InitialStatus = reservation.StatusConfirmed
		result, err := f.cmds.CreateReservation(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "confirmed", result.Reservation.Status)
	})

	t.Run("error: validation failures never reach the store", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*commands.CreateReservationRequest)
			errIs  error
		}{
			{"no guests", func(r *commands.CreateReservationRequest) { r.NumberOfGuests = 0 }, reservation.ErrInvalidGuestCount},
			{"no name", func(r *commands.CreateReservationRequest) { r.CustomerName = "" }, reservation.ErrCustomerNameRequired},
			{"no date", func(r *commands.CreateReservationRequest) { r.Date = civil.Date{} }, reservation.ErrInvalidSlot},
			{"active start", func(r *commands.CreateReservationRequest) { r.InitialStatus = reservation.StatusActive }, reservation.ErrInvalidInitialStatus},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				f := newFixture(t)
				f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)

				req := valid()
				c.mutate(&req)
				_, err := f.cmds.CreateReservation(context.Background(), req)

				assert.ErrorIs(t, err, commands.ErrDomainValidation)
				assert.ErrorIs(t, err, c.errIs)
			})
		}
	})

	t.Run("error: duplicate key", func(t *testing.T) {
		f := newFixture(t)

		f.restaurants.EXPECT().Get(gomock.Any(), restaurant.ID).Return(restaurant, nil).Times(1)
		f.store.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(infra.RepositoryError{Kind: infra.KindDuplicateKey}).Times(1)

		_, err := f.cmds.CreateReservation(context.Background(), valid())

		assert.ErrorIs(t, err, errs.ErrDuplicateReservation)
	})
}
