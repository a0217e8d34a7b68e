package api

import (
	"net/http"

	reqdto "restaurant-console/internal/handler/dto/request"
	resdto "restaurant-console/internal/handler/dto/response"
	"restaurant-console/internal/handler/httperr"
	"restaurant-console/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type HousekeepingHandler struct {
	q queries.ReservationQueries
}

func NewHousekeepingHandler(q queries.ReservationQueries) *HousekeepingHandler {
	return &HousekeepingHandler{q: q}
}

// @Summary Purge candidates
// @Description Terminal reservations past the retention window; nothing is deleted
// @Tags housekeeping
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/restaurants/{restaurantId}/housekeeping/purge-candidates [get]
func (h *HousekeepingHandler) PurgeCandidates(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}
	from, err := reqdto.ParseDate(c.Query("from"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from date", nil)
		return
	}
	to, err := reqdto.ParseDate(c.Query("to"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to date", nil)
		return
	}

	views, err := h.q.PurgeCandidates(c.Request.Context(), restaurantID, from, to)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}
