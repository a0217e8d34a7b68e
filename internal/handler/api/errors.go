package api

import (
	"net/http"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/handler/httperr"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// abortWithUsecaseError maps lifecycle errors onto HTTP responses. A closed
// reservation is 422, an action not allowed from a live status is 409.
func abortWithUsecaseError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrInvalidDate):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date", nil)
	case errs.Is(err, errs.ErrRestaurantNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Restaurant not found", nil)
	case errs.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errs.Is(err, reservation.ErrTerminalState):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Reservation is closed", nil)
	case errs.Is(err, reservation.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Action not allowed in the current status", nil)
	case errs.Is(err, errs.ErrConcurrentModification):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation was modified concurrently, reload and retry", nil)
	case errs.Is(err, errs.ErrDuplicateReservation):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation already exists", nil)
	case errs.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed", validationDetail(err))
	case errs.Is(err, errs.ErrOperationCanceled):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Request canceled", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func validationDetail(err error) any {
	for _, target := range []error{
		reservation.ErrCustomerNameRequired,
		reservation.ErrInvalidGuestCount,
		reservation.ErrInvalidSlot,
		reservation.ErrInvalidInitialStatus,
		reservation.ErrRestaurantRequired,
	} {
		if errs.Is(err, target) {
			return gin.H{"reason": target.Error()}
		}
	}
	return nil
}
