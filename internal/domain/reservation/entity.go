package reservation

import (
	"slices"
	"strings"
	"time"

	"restaurant-console/internal/pkg/patch"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type Reservation struct {
	id               uuid.UUID
	restaurantID     uuid.UUID
	customerName     string
	customerEmail    string
	customerPhone    string
	numberOfGuests   int
	slot             Slot
	status           Status
	confirmationCode string
	notes            string
	createdAt        time.Time
	updatedAt        time.Time
	history          []StatusChange
	version          int64
}

type NewParams struct {
	RestaurantID   uuid.UUID
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	NumberOfGuests int
	Slot           Slot
	// InitialStatus defaults to pending; confirmed is allowed for staff bookings.
	InitialStatus Status
	Notes         string
	CreatedBy     string
}

// NewReservation creates a reservation at version 1 with one history entry.
// The email is stored as given: phone and walk-in bookings often carry none.
func NewReservation(p NewParams, now time.Time) (*Reservation, error) {
	if p.RestaurantID == uuid.Nil {
		return nil, ErrRestaurantRequired
	}
	name := strings.TrimSpace(p.CustomerName)
	if name == "" {
		return nil, ErrCustomerNameRequired
	}
	if p.NumberOfGuests < 1 {
		return nil, ErrInvalidGuestCount
	}
	if p.Slot.date == (civil.Date{}) {
		return nil, ErrInvalidSlot
	}

	status := p.InitialStatus
	if status == "" {
		status = StatusPending
	}
	if status != StatusPending && status != StatusConfirmed {
		return nil, ErrInvalidInitialStatus
	}

	id := uuid.New()
	return &Reservation{
		id:               id,
		restaurantID:     p.RestaurantID,
		customerName:     name,
		customerEmail:    strings.TrimSpace(p.CustomerEmail),
		customerPhone:    strings.TrimSpace(p.CustomerPhone),
		numberOfGuests:   p.NumberOfGuests,
		slot:             p.Slot,
		status:           status,
		confirmationCode: ConfirmationCodeFor(id),
		notes:            p.Notes,
		createdAt:        now,
		updatedAt:        now,
		history:          []StatusChange{{Status: status, At: now, By: p.CreatedBy}},
		version:          1,
	}, nil
}

// Changes carries the optional field updates of an edit action.
type Changes struct {
	CustomerName   *string
	CustomerEmail  *string
	CustomerPhone  *string
	NumberOfGuests *int
	Date           *civil.Date
	Time           *civil.Time
	ClearTime      bool
	Notes          *string
}

// Apply runs action against current, which is the caller's view of the status
// (the display status, so a late booking is handled by the late row).
// Field changes are only honoured for edit. On error r is left untouched.
func (r *Reservation) Apply(current Status, action Action, changes *Changes, by string, at time.Time) error {
	next, err := Transition(current, action)
	if err != nil {
		return err
	}

	updated := *r
	if action == ActionEdit && changes != nil {
		if err := updated.applyChanges(changes); err != nil {
			return err
		}
	}

	updated.status = next
	updated.updatedAt = at
	updated.history = append(slices.Clone(r.history), StatusChange{
		Status: next,
		Action: action,
		At:     at,
		By:     by,
	})

	*r = updated
	return nil
}

func (r *Reservation) applyChanges(c *Changes) error {
	name := patch.TrimmedOr(c.CustomerName, r.customerName)
	if name == "" {
		return ErrCustomerNameRequired
	}
	guests := patch.Coalesce(c.NumberOfGuests, r.numberOfGuests)
	if guests < 1 {
		return ErrInvalidGuestCount
	}

	date := patch.Coalesce(c.Date, r.slot.date)
	var tod *civil.Time
	switch {
	case c.ClearTime:
	case c.Time != nil:
		tod = c.Time
	case r.slot.hasTime:
		t := r.slot.time
		tod = &t
	}
	slot, err := NewSlot(date, tod)
	if err != nil {
		return err
	}

	r.customerName = name
	r.customerEmail = patch.TrimmedOr(c.CustomerEmail, r.customerEmail)
	r.customerPhone = patch.TrimmedOr(c.CustomerPhone, r.customerPhone)
	r.numberOfGuests = guests
	r.slot = slot
	r.notes = patch.Coalesce(c.Notes, r.notes)
	return nil
}

// Snapshot is the flat, exported form used by stores and events.
type Snapshot struct {
	ID               uuid.UUID
	RestaurantID     uuid.UUID
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	NumberOfGuests   int
	Date             civil.Date
	Time             string
	Status           Status
	ConfirmationCode string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	History          []StatusChange
	Version          int64
}

func (r *Reservation) Snapshot() Snapshot {
	return Snapshot{
		ID:               r.id,
		RestaurantID:     r.restaurantID,
		CustomerName:     r.customerName,
		CustomerEmail:    r.customerEmail,
		CustomerPhone:    r.customerPhone,
		NumberOfGuests:   r.numberOfGuests,
		Date:             r.slot.date,
		Time:             r.slot.TimeText(),
		Status:           r.status,
		ConfirmationCode: r.confirmationCode,
		Notes:            r.notes,
		CreatedAt:        r.createdAt,
		UpdatedAt:        r.updatedAt,
		History:          slices.Clone(r.history),
		Version:          r.version,
	}
}

// Restore rebuilds a reservation from storage without validation.
func Restore(s Snapshot) *Reservation {
	code := s.ConfirmationCode
	if code == "" && s.ID != uuid.Nil {
		code = ConfirmationCodeFor(s.ID)
	}
	return &Reservation{
		id:               s.ID,
		restaurantID:     s.RestaurantID,
		customerName:     s.CustomerName,
		customerEmail:    s.CustomerEmail,
		customerPhone:    s.CustomerPhone,
		numberOfGuests:   s.NumberOfGuests,
		slot:             RestoreSlot(s.Date, s.Time),
		status:           s.Status,
		confirmationCode: code,
		notes:            s.Notes,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		history:          slices.Clone(s.History),
		version:          s.Version,
	}
}

// WithVersion returns a copy carrying the version assigned by a store.
func (r *Reservation) WithVersion(v int64) *Reservation {
	c := *r
	c.history = slices.Clone(r.history)
	c.version = v
	return &c
}

func (r *Reservation) ID() uuid.UUID            { return r.id }
func (r *Reservation) RestaurantID() uuid.UUID  { return r.restaurantID }
func (r *Reservation) CustomerName() string     { return r.customerName }
func (r *Reservation) CustomerEmail() string    { return r.customerEmail }
func (r *Reservation) CustomerPhone() string    { return r.customerPhone }
func (r *Reservation) NumberOfGuests() int      { return r.numberOfGuests }
func (r *Reservation) Slot() Slot               { return r.slot }
func (r *Reservation) Status() Status           { return r.status }
func (r *Reservation) ConfirmationCode() string { return r.confirmationCode }
func (r *Reservation) Notes() string            { return r.notes }
func (r *Reservation) CreatedAt() time.Time     { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time     { return r.updatedAt }
func (r *Reservation) History() []StatusChange  { return slices.Clone(r.history) }
func (r *Reservation) Version() int64           { return r.version }
func (r *Reservation) IsTerminal() bool         { return r.status.IsTerminal() }
