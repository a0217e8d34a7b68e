package api

import (
	"net/http"

	"restaurant-console/internal/domain/reservation"
	reqdto "restaurant-console/internal/handler/dto/request"
	resdto "restaurant-console/internal/handler/dto/response"
	"restaurant-console/internal/handler/httperr"
	"restaurant-console/internal/handler/middleware"
	"restaurant-console/internal/usecase/commands"
	"restaurant-console/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Create a pending (or staff-confirmed) reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Param X-Staff-ID header string false "Acting staff member"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResultResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/restaurants/{restaurantId}/reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	cmd, err := req.ToCommand(restaurantID, middleware.GetStaffID(c))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	result, err := h.cmds.CreateReservation(c.Request.Context(), cmd)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservationResult(result))
}

// @Summary Get reservation
// @Description Get a reservation with its display status and allowed actions
// @Tags reservations
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/restaurants/{restaurantId}/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := h.q.GetReservation(c.Request.Context(), restaurantID, id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Apply action
// @Description Run a lifecycle action (confirm, reject, edit, activate, finish, cancel)
// @Tags reservations
// @Accept json
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Param id path string true "Reservation ID"
// @Param action path string true "Action"
// @Param X-Staff-ID header string false "Acting staff member"
// @Param request body reqdto.ActionRequest false "Edit fields, read only for edit"
// @Success 200 {object} resdto.ReservationResultResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/restaurants/{restaurantId}/reservations/{id}/actions/{action} [post]
func (h *ReservationHandler) ApplyAction(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}
	action, err := reservation.ParseAction(c.Param("action"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown action", nil)
		return
	}

	var changes *reservation.Changes
	if action == reservation.ActionEdit {
		var req reqdto.ActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
		if changes, err = req.ToChanges(); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
			return
		}
	}

	result, err := h.cmds.ApplyAction(c.Request.Context(), commands.ApplyActionRequest{
		RestaurantID:  restaurantID,
		ReservationID: id,
		Action:        action,
		Changes:       changes,
		PerformedBy:   middleware.GetStaffID(c),
	})
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationResult(result))
}

func restaurantIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("restaurantId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid restaurant ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
