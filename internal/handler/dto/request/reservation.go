package request

import (
	"strings"
	"time"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/commands"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrInvalidDateFormat  = errs.New("date must be YYYY-MM-DD")
	ErrInvalidTimeFormat  = errs.New("time must be HH:MM")
	ErrInvalidMonthFormat = errs.New("month must be YYYY-MM")
)

type CreateReservationRequest struct {
	CustomerName   string  `json:"customer_name" binding:"required,max=200"`
	CustomerEmail  string  `json:"customer_email" binding:"omitempty,max=320"`
	CustomerPhone  string  `json:"customer_phone" binding:"omitempty,max=50"`
	NumberOfGuests int     `json:"number_of_guests" binding:"required,min=1"`
	Date           string  `json:"date" binding:"required"`
	Time           *string `json:"time,omitempty"`
	InitialStatus  string  `json:"initial_status" binding:"omitempty,oneof=pending confirmed"`
	Notes          string  `json:"notes" binding:"omitempty,max=2000"`
}

func (r CreateReservationRequest) ToCommand(restaurantID uuid.UUID, staffID string) (commands.CreateReservationRequest, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return commands.CreateReservationRequest{}, err
	}
	tod, err := parseOptionalTime(r.Time)
	if err != nil {
		return commands.CreateReservationRequest{}, err
	}
	return commands.CreateReservationRequest{
		RestaurantID:   restaurantID,
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		CustomerPhone:  r.CustomerPhone,
		NumberOfGuests: r.NumberOfGuests,
		Date:           date,
		Time:           tod,
		InitialStatus:  reservation.Status(r.InitialStatus),
		Notes:          r.Notes,
		CreatedBy:      staffID,
	}, nil
}

// ActionRequest is the optional body of an action call. Only edit reads the
// fields; a blank time clears the slot time.
type ActionRequest struct {
	CustomerName   *string `json:"customer_name,omitempty" binding:"omitempty,max=200"`
	CustomerEmail  *string `json:"customer_email,omitempty" binding:"omitempty,max=320"`
	CustomerPhone  *string `json:"customer_phone,omitempty" binding:"omitempty,max=50"`
	NumberOfGuests *int    `json:"number_of_guests,omitempty" binding:"omitempty,min=1"`
	Date           *string `json:"date,omitempty"`
	Time           *string `json:"time,omitempty"`
	Notes          *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

func (r ActionRequest) ToChanges() (*reservation.Changes, error) {
	changes := &reservation.Changes{
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		CustomerPhone:  r.CustomerPhone,
		NumberOfGuests: r.NumberOfGuests,
		Notes:          r.Notes,
	}
	if r.Date != nil {
		d, err := ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		changes.Date = &d
	}
	if r.Time != nil {
		if strings.TrimSpace(*r.Time) == "" {
			changes.ClearTime = true
		} else {
			t, err := parseTimeOfDay(*r.Time)
			if err != nil {
				return nil, err
			}
			changes.Time = &t
		}
	}
	return changes, nil
}

func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil || !d.IsValid() {
		return civil.Date{}, ErrInvalidDateFormat
	}
	return d, nil
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, ErrInvalidMonthFormat
	}
	return t.Year(), t.Month(), nil
}

func parseOptionalTime(s *string) (*civil.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTimeOfDay(s string) (civil.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.TimeOf(t), nil
		}
	}
	return civil.Time{}, ErrInvalidTimeFormat
}
