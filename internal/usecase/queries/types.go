package queries

import (
	"time"

	"restaurant-console/internal/domain/calendar"
	"restaurant-console/internal/domain/reservation"

	"github.com/google/uuid"
)

type StatusChangeView struct {
	Status string
	Action string
	At     time.Time
	By     string
}

// ReservationView is a reservation as seen at a given instant: Status is what
// is stored, DisplayStatus has lateness applied.
type ReservationView struct {
	ID               uuid.UUID
	RestaurantID     uuid.UUID
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	NumberOfGuests   int
	Date             string
	Time             string
	Status           string
	DisplayStatus    string
	ConfirmationCode string
	Notes            string
	AllowedActions   []string
	PurgeEligible    bool
	History          []StatusChangeView
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewReservationView(r *reservation.Reservation, ev *reservation.Evaluator, now time.Time) *ReservationView {
	display := ev.DisplayStatus(r, now)

	allowed := []string{}
	for _, a := range reservation.Allowed(display) {
		allowed = append(allowed, a.String())
	}
	history := make([]StatusChangeView, 0, len(r.History()))
	for _, h := range r.History() {
		history = append(history, StatusChangeView{
			Status: h.Status.String(),
			Action: h.Action.String(),
			At:     h.At,
			By:     h.By,
		})
	}

	return &ReservationView{
		ID:               r.ID(),
		RestaurantID:     r.RestaurantID(),
		CustomerName:     r.CustomerName(),
		CustomerEmail:    r.CustomerEmail(),
		CustomerPhone:    r.CustomerPhone(),
		NumberOfGuests:   r.NumberOfGuests(),
		Date:             r.Slot().Date().String(),
		Time:             r.Slot().TimeText(),
		Status:           r.Status().String(),
		DisplayStatus:    display.String(),
		ConfirmationCode: r.ConfirmationCode(),
		Notes:            r.Notes(),
		AllowedActions:   allowed,
		PurgeEligible:    ev.PurgeEligible(r, now),
		History:          history,
		Version:          r.Version(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}

type DayEntry struct {
	Reservation *ReservationView
	Matches     bool
}

type DayView struct {
	RestaurantName string
	Bucket         calendar.DayBucket
	Reservations   []DayEntry
}

type MonthView struct {
	RestaurantName string
	Grid           calendar.MonthGrid
}
