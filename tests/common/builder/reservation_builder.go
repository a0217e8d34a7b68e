package builder

import (
	"time"

	"restaurant-console/internal/domain/reservation"
	reqdto "restaurant-console/internal/handler/dto/request"
	"restaurant-console/internal/usecase/queries"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var DefaultRestaurantID = uuid.MustParse("0f6b2b8e-4f0e-4c57-9a4c-3f5f3b1e2a10")

type ReservationBuilder struct {
	ID             uuid.UUID
	RestaurantID   uuid.UUID
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	NumberOfGuests int
	Date           civil.Date
	Time           string
	Status         reservation.Status
	Notes          string
	Version        int64
	CreatedAt      time.Time
	CreatedBy      string
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:             uuid.New(),
		RestaurantID:   DefaultRestaurantID,
		CustomerName:   "Ada Lovelace",
		CustomerEmail:  "ada@example.com",
		CustomerPhone:  "+44 20 7946 0000",
		NumberOfGuests: 2,
		Date:           civil.Date{Year: 2025, Month: time.June, Day: 10},
		Time:           "19:30",
		Status:         reservation.StatusPending,
		Notes:          "window table",
		Version:        1,
		CreatedAt:      time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
		CreatedBy:      "staff-1",
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithStatus(s reservation.Status) *ReservationBuilder {
	b.Status = s
	return b
}

func (b *ReservationBuilder) WithSlot(date civil.Date, tod string) *ReservationBuilder {
	b.Date = date
	b.Time = tod
	return b
}

func (b *ReservationBuilder) WithName(name string) *ReservationBuilder {
	b.CustomerName = name
	return b
}

func (b *ReservationBuilder) WithEmail(email string) *ReservationBuilder {
	b.CustomerEmail = email
	return b
}

func (b *ReservationBuilder) WithPhone(phone string) *ReservationBuilder {
	b.CustomerPhone = phone
	return b
}

func (b *ReservationBuilder) WithGuests(n int) *ReservationBuilder {
	b.NumberOfGuests = n
	return b
}

func (b *ReservationBuilder) WithRestaurant(id uuid.UUID) *ReservationBuilder {
	b.RestaurantID = id
	return b
}

func (b *ReservationBuilder) WithVersion(v int64) *ReservationBuilder {
	b.Version = v
	return b
}

// BuildDomain goes through NewReservation, so Status must be pending or confirmed.
func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	var tod *civil.Time
	if b.Time != "" {
		t, err := civil.ParseTime(b.Time + ":00")
		if err != nil {
			return nil, reservation.ErrInvalidSlot
		}
		tod = &t
	}
	slot, err := reservation.NewSlot(b.Date, tod)
	if err != nil {
		return nil, err
	}
	return reservation.NewReservation(reservation.NewParams{
		RestaurantID:   b.RestaurantID,
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		CustomerPhone:  b.CustomerPhone,
		NumberOfGuests: b.NumberOfGuests,
		Slot:           slot,
		InitialStatus:  b.Status,
		Notes:          b.Notes,
		CreatedBy:      b.CreatedBy,
	}, b.CreatedAt)
}

func (b *ReservationBuilder) BuildSnapshot() reservation.Snapshot {
	return reservation.Snapshot{
		ID:               b.ID,
		RestaurantID:     b.RestaurantID,
		CustomerName:     b.CustomerName,
		CustomerEmail:    b.CustomerEmail,
		CustomerPhone:    b.CustomerPhone,
		NumberOfGuests:   b.NumberOfGuests,
		Date:             b.Date,
		Time:             b.Time,
		Status:           b.Status,
		ConfirmationCode: reservation.ConfirmationCodeFor(b.ID),
		Notes:            b.Notes,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.CreatedAt,
		History: []reservation.StatusChange{
			{Status: b.Status, At: b.CreatedAt, By: b.CreatedBy},
		},
		Version: b.Version,
	}
}

// BuildRestored accepts any status, the way a store would hand it back.
func (b *ReservationBuilder) BuildRestored() *reservation.Reservation {
	return reservation.Restore(b.BuildSnapshot())
}

// BuildView renders the reservation the way the query layer would at now.
func (b *ReservationBuilder) BuildView(ev *reservation.Evaluator, now time.Time) *queries.ReservationView {
	return queries.NewReservationView(b.BuildRestored(), ev, now)
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	req := reqdto.CreateReservationRequest{
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		CustomerPhone:  b.CustomerPhone,
		NumberOfGuests: b.NumberOfGuests,
		Date:           b.Date.String(),
		InitialStatus:  string(b.Status),
		Notes:          b.Notes,
	}
	if b.Time != "" {
		t := b.Time
		req.Time = &t
	}
	return req
}
