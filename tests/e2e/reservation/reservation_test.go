//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/handler/dto/response"
	"restaurant-console/tests/common/builder"
	"restaurant-console/tests/common/dbtest"
	"restaurant-console/tests/common/httptest"
	"restaurant-console/tests/e2e"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/restaurants/%s/reservations"
	reservationURL  = "/api/restaurants/%s/reservations/%s"
	actionURL       = "/api/restaurants/%s/reservations/%s/actions/%s"
	dayURL          = "/api/restaurants/%s/calendar/days/%s"
	monthURL        = "/api/restaurants/%s/calendar/months/%s"
	purgeURL        = "/api/restaurants/%s/housekeeping/purge-candidates?from=%s&to=%s"

	staffID = "host-1"
)

type ReservationSuite struct {
	e2e.SharedSuite
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) create(t *testing.T, b *builder.ReservationBuilder) *response.ReservationResultResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost,
		fmt.Sprintf(reservationsURL, b.RestaurantID), b.BuildCreateRequestDTO(), staffID)

	var created response.ReservationResultResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
	require.NotNil(t, created.Reservation)
	return &created
}

func (s *ReservationSuite) act(t *testing.T, id uuid.UUID, action reservation.Action, body any) *response.ReservationResultResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost,
		fmt.Sprintf(actionURL, builder.DefaultRestaurantID, id, action), body, staffID)

	var result response.ReservationResultResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &result)
	require.NotNil(t, result.Reservation)
	return &result
}

func futureDate() civil.Date {
	return civil.DateOf(time.Now().AddDate(0, 0, 14))
}

func (s *ReservationSuite) TestLifecycle() {
	s.Run("Normal case: pending booking is confirmed, activated and finished", func() {
		t := s.T()

		created := s.create(t, builder.NewReservationBuilder().WithSlot(futureDate(), "19:30"))
		res := created.Reservation
		assert.Equal(t, "pending", res.Status)
		assert.Equal(t, "pending", res.DisplayStatus)
		assert.Len(t, res.ConfirmationCode, 8)
		assert.Equal(t, int64(1), res.Version)
		assert.ElementsMatch(t, []string{"confirm", "reject", "edit", "cancel"}, res.AllowedActions)

		confirmed := s.act(t, res.ID, reservation.ActionConfirm, nil).Reservation
		assert.Equal(t, "confirmed", confirmed.Status)
		assert.Equal(t, int64(2), confirmed.Version)

		active := s.act(t, res.ID, reservation.ActionActivate, nil).Reservation
		assert.Equal(t, "active", active.Status)

		finished := s.act(t, res.ID, reservation.ActionFinish, nil).Reservation
		assert.Equal(t, "finished", finished.Status)
		assert.Empty(t, finished.AllowedActions)
		require.Len(t, finished.History, 4)
		assert.Equal(t, staffID, finished.History[3].By)
		assert.Equal(t, int64(4), dbtest.ReservationVersion(t, s.DB, res.ID))
	})

	s.Run("Normal case: accepted transitions queue one outbox job each", func() {
		t := s.T()

		const guest = "outbox-check@example.com"
		created := s.create(t, builder.NewReservationBuilder().WithSlot(futureDate(), "12:00").WithEmail(guest))
		s.act(t, created.Reservation.ID, reservation.ActionConfirm, nil)

		require.Eventually(t, func() bool {
			return dbtest.CountNotificationJobs(t, s.DB, "pending_acknowledgement", guest) == 1 &&
				dbtest.CountNotificationJobs(t, s.DB, "confirmation", guest) == 1
		}, 5*time.Second, 50*time.Millisecond)
	})

	s.Run("Normal case: no email means the notification is skipped", func() {
		t := s.T()

		created := s.create(t, builder.NewReservationBuilder().
			WithSlot(futureDate(), "12:00").
			WithEmail(""))

		require.NotNil(t, created.Notification)
		assert.Equal(t, "skipped", created.Notification.Status)
	})

	s.Run("Error case: terminal reservation rejects every action", func() {
		t := s.T()

		created := s.create(t, builder.NewReservationBuilder().WithSlot(futureDate(), "18:00"))
		s.act(t, created.Reservation.ID, reservation.ActionCancel, nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(actionURL, builder.DefaultRestaurantID, created.Reservation.ID, reservation.ActionConfirm), nil, staffID)
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Reservation is closed")
	})

	s.Run("Error case: action outside the current row is a conflict", func() {
		t := s.T()

		created := s.create(t, builder.NewReservationBuilder().WithSlot(futureDate(), "18:00"))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(actionURL, builder.DefaultRestaurantID, created.Reservation.ID, reservation.ActionFinish), nil, staffID)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Action not allowed")
		assert.Equal(t, int64(1), dbtest.ReservationVersion(t, s.DB, created.Reservation.ID))
	})

	s.Run("Error case: actions require a staff identity", func() {
		t := s.T()

		created := s.create(t, builder.NewReservationBuilder().WithSlot(futureDate(), "18:00"))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(actionURL, builder.DefaultRestaurantID, created.Reservation.ID, reservation.ActionConfirm), nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	s.Run("Error case: unknown restaurant", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(reservationURL, uuid.New(), uuid.New()), nil, staffID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *ReservationSuite) TestLateReservations() {
	s.Run("Normal case: past confirmed slot displays late and can be edited", func() {
		t := s.T()

		past := civil.DateOf(time.Now().AddDate(0, 0, -2))
		created := s.create(t, builder.NewReservationBuilder().
			WithSlot(past, "19:00").
			WithStatus(reservation.StatusConfirmed))
		assert.Equal(t, "confirmed", created.Reservation.Status)
		assert.Equal(t, "late", created.Reservation.DisplayStatus)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(reservationURL, builder.DefaultRestaurantID, created.Reservation.ID), nil, staffID)
		var view response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		assert.Equal(t, "late", view.DisplayStatus)
		assert.ElementsMatch(t, []string{"activate", "edit", "cancel"}, view.AllowedActions)

		next := futureDate().String()
		edited := s.act(t, created.Reservation.ID, reservation.ActionEdit, map[string]any{"date": next}).Reservation
		assert.Equal(t, "confirmed", edited.Status)
		assert.Equal(t, "confirmed", edited.DisplayStatus)
		assert.Equal(t, next, edited.Date)
	})
}

func (s *ReservationSuite) TestCalendar() {
	s.Run("Normal case: day view counts by display status with a search match set", func() {
		t := s.T()

		date := civil.DateOf(time.Now().AddDate(0, 1, 0))
		s.create(t, builder.NewReservationBuilder().WithSlot(date, "18:00").WithName("Grace Hopper"))
		s.create(t, builder.NewReservationBuilder().WithSlot(date, "20:00").WithName("Alan Turing").
			WithStatus(reservation.StatusConfirmed))
		s.create(t, builder.NewReservationBuilder().WithSlot(date, "").WithName("Grace Kelly"))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(dayURL, builder.DefaultRestaurantID, date)+"?q=grace", nil, staffID)
		var day response.DayViewResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &day)

		assert.Equal(t, dbtest.DefaultRestaurantName, day.RestaurantName)
		assert.Equal(t, 3, day.Bucket.Counts.Total)
		assert.Equal(t, 2, day.Bucket.Counts.ByStatus["pending"])
		assert.Equal(t, 1, day.Bucket.Counts.ByStatus["confirmed"])
		require.NotNil(t, day.Bucket.Match)
		assert.Equal(t, 2, day.Bucket.Match.Total)
		require.Len(t, day.Reservations, 3)
		assert.Equal(t, "Grace Hopper", day.Reservations[0].CustomerName)
		assert.Equal(t, "Grace Kelly", day.Reservations[2].CustomerName)
	})

	s.Run("Normal case: month view is a Monday-first grid", func() {
		t := s.T()

		month := time.Now().AddDate(0, 2, 0).Format("2006-01")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(monthURL, builder.DefaultRestaurantID, month), nil, staffID)
		var view response.MonthViewResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)

		require.NotEmpty(t, view.Cells)
		assert.Zero(t, len(view.Cells)%7)
		first, err := civil.ParseDate(view.Cells[0].Date)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, first.In(time.UTC).Weekday())
	})

	s.Run("Error case: malformed day", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(dayURL, builder.DefaultRestaurantID, "2025-13-01"), nil, staffID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationSuite) TestPurgeCandidates() {
	s.Run("Normal case: only terminal reservations past retention are listed", func() {
		t := s.T()

		old := civil.DateOf(time.Now().AddDate(0, 0, -200))
		canceled := s.create(t, builder.NewReservationBuilder().WithSlot(old, "19:00"))
		s.act(t, canceled.Reservation.ID, reservation.ActionCancel, nil)
		s.create(t, builder.NewReservationBuilder().WithSlot(old, "20:00"))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(purgeURL, builder.DefaultRestaurantID, old.AddDays(-1), old.AddDays(1)), nil, staffID)
		var list []response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)

		require.Len(t, list, 1)
		assert.Equal(t, canceled.Reservation.ID, list[0].ID)
		assert.True(t, list[0].PurgeEligible)
	})
}
