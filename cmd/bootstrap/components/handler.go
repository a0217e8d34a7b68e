package components

import (
	"restaurant-console/internal/handler"
	"restaurant-console/internal/handler/api"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func() *gin.Engine {
			return gin.New()
		},
		api.NewReservationHandler,
		api.NewCalendarHandler,
		api.NewHousekeepingHandler,
		handler.NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)
