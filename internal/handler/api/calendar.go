package api

import (
	"net/http"

	reqdto "restaurant-console/internal/handler/dto/request"
	resdto "restaurant-console/internal/handler/dto/response"
	"restaurant-console/internal/handler/httperr"
	"restaurant-console/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	q queries.ReservationQueries
}

func NewCalendarHandler(q queries.ReservationQueries) *CalendarHandler {
	return &CalendarHandler{q: q}
}

// @Summary Day view
// @Description Reservations and status counts for one day; q adds a parallel match count
// @Tags calendar
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param q query string false "Search term"
// @Success 200 {object} resdto.DayViewResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/restaurants/{restaurantId}/calendar/days/{date} [get]
func (h *CalendarHandler) Day(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}
	date, err := reqdto.ParseDate(c.Param("date"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	view, err := h.q.DayView(c.Request.Context(), restaurantID, date, c.Query("q"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDayView(view))
}

// @Summary Month view
// @Description Monday-first month grid with per-day status counts
// @Tags calendar
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Param month path string true "Month (YYYY-MM)"
// @Param q query string false "Search term"
// @Success 200 {object} resdto.MonthViewResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/restaurants/{restaurantId}/calendar/months/{month} [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}
	year, month, err := reqdto.ParseMonth(c.Param("month"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	view, err := h.q.MonthView(c.Request.Context(), restaurantID, year, month, c.Query("q"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromMonthView(view))
}
