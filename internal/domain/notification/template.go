package notification

import (
	"fmt"
	"strings"
	"time"

	"restaurant-console/internal/domain/reservation"
)

type Template string

const (
	TemplatePendingAcknowledgement Template = "pending_acknowledgement"
	TemplateConfirmation           Template = "confirmation"
	TemplateCancellation           Template = "cancellation"
	TemplateRejection              Template = "rejection"
)

// TemplateFor maps the status a reservation moved into to its guest message.
// Active, late and finished have no guest-facing template.
func TemplateFor(status reservation.Status) (Template, bool) {
	switch status {
	case reservation.StatusPending:
		return TemplatePendingAcknowledgement, true
	case reservation.StatusConfirmed:
		return TemplateConfirmation, true
	case reservation.StatusCanceled:
		return TemplateCancellation, true
	case reservation.StatusRejected:
		return TemplateRejection, true
	default:
		return "", false
	}
}

var subjects = map[Template]string{
	TemplatePendingAcknowledgement: "We received your reservation request at %s",
	TemplateConfirmation:           "Your reservation at %s is confirmed",
	TemplateCancellation:           "Your reservation at %s has been canceled",
	TemplateRejection:              "We could not accept your reservation at %s",
}

var openings = map[Template]string{
	TemplatePendingAcknowledgement: "thank you for your request. The restaurant will confirm it shortly.",
	TemplateConfirmation:           "your reservation is confirmed. We look forward to seeing you.",
	TemplateCancellation:           "your reservation has been canceled.",
	TemplateRejection:              "unfortunately the restaurant could not accept your reservation.",
}

// Render builds the message for the event's current status. The second
// return value is false when the status has no template.
func Render(e Event) (Message, bool) {
	tpl, ok := TemplateFor(e.Reservation.Status)
	if !ok {
		return Message{}, false
	}
	r := e.Reservation

	when := "any time"
	if r.Time != "" {
		when = r.Time
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n%s\n\n", r.CustomerName, openings[tpl])
	fmt.Fprintf(&body, "Restaurant: %s\n", e.RestaurantName)
	fmt.Fprintf(&body, "Date: %s\n", r.Date.In(time.UTC).Format("Monday, 2 January 2006"))
	fmt.Fprintf(&body, "Time: %s\n", when)
	fmt.Fprintf(&body, "Guests: %d\n", r.NumberOfGuests)
	fmt.Fprintf(&body, "Confirmation code: %s\n", r.ConfirmationCode)

	return Message{
		Template: tpl,
		To:       strings.TrimSpace(r.CustomerEmail),
		Subject:  fmt.Sprintf(subjects[tpl], e.RestaurantName),
		Body:     body.String(),
	}, true
}
