package response

import (
	"time"

	"restaurant-console/internal/domain/calendar"
	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/usecase/commands"
	"restaurant-console/internal/usecase/notify"
	"restaurant-console/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type StatusChangeResponse struct {
	Status string    `json:"status"`
	Action string    `json:"action,omitempty"`
	At     time.Time `json:"at"`
	By     string    `json:"by,omitempty"`
}

type ReservationResponse struct {
	ID               uuid.UUID              `json:"id"`
	RestaurantID     uuid.UUID              `json:"restaurantId"`
	CustomerName     string                 `json:"customerName"`
	CustomerEmail    string                 `json:"customerEmail,omitempty"`
	CustomerPhone    string                 `json:"customerPhone,omitempty"`
	NumberOfGuests   int                    `json:"numberOfGuests"`
	Date             string                 `json:"date"`
	Time             string                 `json:"time,omitempty"`
	Status           string                 `json:"status"`
	DisplayStatus    string                 `json:"displayStatus"`
	ConfirmationCode string                 `json:"confirmationCode"`
	Notes            string                 `json:"notes,omitempty"`
	AllowedActions   []string               `json:"allowedActions"`
	PurgeEligible    bool                   `json:"purgeEligible"`
	History          []StatusChangeResponse `json:"history"`
	Version          int64                  `json:"version"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

type NotificationResponse struct {
	Status   string `json:"status"`
	Template string `json:"template,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type ReservationResultResponse struct {
	Reservation  *ReservationResponse  `json:"reservation"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	if err := copier.Copy(&resp, v); err != nil {
		panic("copier: " + err.Error())
	}
	if resp.AllowedActions == nil {
		resp.AllowedActions = []string{}
	}
	if resp.History == nil {
		resp.History = []StatusChangeResponse{}
	}
	return &resp
}

func FromReservationViews(vs []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromReservationView(v))
	}
	return out
}

// FromOutcome reports the notification as it stands when the response is
// written; a send still in flight shows as pending.
func FromOutcome(o notify.Outcome) *NotificationResponse {
	return &NotificationResponse{
		Status:   string(o.Status),
		Template: string(o.Template),
		Reason:   o.Reason,
	}
}

func FromReservationResult(r *commands.ReservationResult) *ReservationResultResponse {
	resp := &ReservationResultResponse{Reservation: FromReservationView(r.Reservation)}
	if r.Notification != nil {
		resp.Notification = FromOutcome(r.Notification.Outcome())
	}
	return resp
}

type CountsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

type DayBucketResponse struct {
	Date   string          `json:"date"`
	Counts CountsResponse  `json:"counts"`
	Match  *CountsResponse `json:"match,omitempty"`
}

type DayEntryResponse struct {
	*ReservationResponse
	Matches bool `json:"matches"`
}

type DayViewResponse struct {
	RestaurantName string             `json:"restaurantName"`
	Bucket         DayBucketResponse  `json:"bucket"`
	Reservations   []DayEntryResponse `json:"reservations"`
}

type CellResponse struct {
	InMonth bool `json:"inMonth"`
	DayBucketResponse
}

type MonthViewResponse struct {
	RestaurantName string         `json:"restaurantName"`
	Year           int            `json:"year"`
	Month          int            `json:"month"`
	Cells          []CellResponse `json:"cells"`
}

// FromCounts writes every status so clients need no defaulting; late is
// included since counts are by display status.
func FromCounts(c calendar.Counts) CountsResponse {
	by := make(map[string]int, len(reservation.AllStatuses))
	for _, s := range reservation.AllStatuses {
		by[s.String()] = c.Of(s)
	}
	return CountsResponse{Total: c.Total, ByStatus: by}
}

func FromDayBucket(b calendar.DayBucket) DayBucketResponse {
	resp := DayBucketResponse{
		Date:   b.Date.String(),
		Counts: FromCounts(b.Counts),
	}
	if b.Match != nil {
		m := FromCounts(*b.Match)
		resp.Match = &m
	}
	return resp
}

func FromDayView(v *queries.DayView) *DayViewResponse {
	entries := make([]DayEntryResponse, 0, len(v.Reservations))
	for _, e := range v.Reservations {
		entries = append(entries, DayEntryResponse{
			ReservationResponse: FromReservationView(e.Reservation),
			Matches:             e.Matches,
		})
	}
	return &DayViewResponse{
		RestaurantName: v.RestaurantName,
		Bucket:         FromDayBucket(v.Bucket),
		Reservations:   entries,
	}
}

func FromMonthView(v *queries.MonthView) *MonthViewResponse {
	cells := make([]CellResponse, 0, len(v.Grid.Cells))
	for _, c := range v.Grid.Cells {
		cells = append(cells, CellResponse{
			InMonth:           c.InMonth,
			DayBucketResponse: FromDayBucket(c.Bucket),
		})
	}
	return &MonthViewResponse{
		RestaurantName: v.RestaurantName,
		Year:           v.Grid.Year,
		Month:          int(v.Grid.Month),
		Cells:          cells,
	}
}
