package calendar

import (
	"strings"

	"restaurant-console/internal/domain/reservation"
)

type Predicate func(r *reservation.Reservation) bool

// Search matches a case-insensitive substring against the guest name, email,
// phone and confirmation code. A blank term yields nil (no filter).
func Search(term string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	return func(r *reservation.Reservation) bool {
		for _, field := range []string{
			r.CustomerName(),
			r.CustomerEmail(),
			r.CustomerPhone(),
			r.ConfirmationCode(),
		} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}
}
