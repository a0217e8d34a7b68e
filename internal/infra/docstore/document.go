package docstore

import (
	"time"

	"restaurant-console/internal/domain/reservation"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

const (
	reservationsCollection = "reservations"
	restaurantsCollection  = "restaurants"
)

// reservationDocument stores dates as ISO text so range filters compare
// lexicographically.
type reservationDocument struct {
	ID               string                     `bson:"_id"`
	RestaurantID     string                     `bson:"restaurant_id"`
	CustomerName     string                     `bson:"customer_name"`
	CustomerEmail    string                     `bson:"customer_email,omitempty"`
	CustomerPhone    string                     `bson:"customer_phone,omitempty"`
	NumberOfGuests   int                        `bson:"number_of_guests"`
	Date             string                     `bson:"date"`
	Time             string                     `bson:"time,omitempty"`
	Status           string                     `bson:"status"`
	ConfirmationCode string                     `bson:"confirmation_code"`
	Notes            string                     `bson:"notes,omitempty"`
	History          []reservation.StatusChange `bson:"status_history"`
	Version          int64                      `bson:"version"`
	CreatedAt        time.Time                  `bson:"created_at"`
	UpdatedAt        time.Time                  `bson:"updated_at"`
}

func toDocument(r *reservation.Reservation) reservationDocument {
	snap := r.Snapshot()
	return reservationDocument{
		ID:               snap.ID.String(),
		RestaurantID:     snap.RestaurantID.String(),
		CustomerName:     snap.CustomerName,
		CustomerEmail:    snap.CustomerEmail,
		CustomerPhone:    snap.CustomerPhone,
		NumberOfGuests:   snap.NumberOfGuests,
		Date:             snap.Date.String(),
		Time:             snap.Time,
		Status:           string(snap.Status),
		ConfirmationCode: snap.ConfirmationCode,
		Notes:            snap.Notes,
		History:          snap.History,
		Version:          snap.Version,
		CreatedAt:        snap.CreatedAt,
		UpdatedAt:        snap.UpdatedAt,
	}
}

// toDomain tolerates a malformed date by leaving it zero; such records sort
// first and never match a range query.
func (d reservationDocument) toDomain() (*reservation.Reservation, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := uuid.Parse(d.RestaurantID)
	if err != nil {
		return nil, err
	}
	date, _ := civil.ParseDate(d.Date)

	return reservation.Restore(reservation.Snapshot{
		ID:               id,
		RestaurantID:     restaurantID,
		CustomerName:     d.CustomerName,
		CustomerEmail:    d.CustomerEmail,
		CustomerPhone:    d.CustomerPhone,
		NumberOfGuests:   d.NumberOfGuests,
		Date:             date,
		Time:             d.Time,
		Status:           reservation.Status(d.Status),
		ConfirmationCode: d.ConfirmationCode,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		History:          d.History,
		Version:          d.Version,
	}), nil
}

type restaurantDocument struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	TimeZone string `bson:"timezone,omitempty"`
}
