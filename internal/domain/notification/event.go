package notification

import (
	"restaurant-console/internal/domain/reservation"
)

type EventType string

const EventCreated EventType = "reservation_created"

// EventFor names the event emitted after an accepted action.
func EventFor(action reservation.Action) EventType {
	return EventType("reservation_" + action.String())
}

// Event is built once per accepted transition and consumed once by the dispatcher.
type Event struct {
	Type           EventType
	Reservation    reservation.Snapshot
	RestaurantName string
}

func NewEvent(t EventType, r *reservation.Reservation, restaurantName string) Event {
	return Event{
		Type:           t,
		Reservation:    r.Snapshot(),
		RestaurantName: restaurantName,
	}
}

type Message struct {
	Template Template `json:"template"`
	To       string   `json:"to"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
}
