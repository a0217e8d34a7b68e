package middleware

import (
	"errors"
	"net/http"

	"restaurant-console/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

var errStaffIDRequired = errors.New("staff id header missing")

// RequireStaffID rejects calls that do not say which staff member acts.
// Identity is asserted by the console front end; it is not authenticated here.
func RequireStaffID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetStaffID(c) == "" {
			httperr.AbortWithError(c, http.StatusBadRequest, errStaffIDRequired, StaffIDHeader+" header is required", nil)
			return
		}
		c.Next()
	}
}
