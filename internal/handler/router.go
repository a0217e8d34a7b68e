package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"restaurant-console/internal/handler/api"
	"restaurant-console/internal/handler/middleware"
	"restaurant-console/internal/pkg/config"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Reservations *api.ReservationHandler
	Calendar     *api.CalendarHandler
	Housekeeping *api.HousekeepingHandler
}

func NewHandlers(r *api.ReservationHandler, c *api.CalendarHandler, h *api.HousekeepingHandler) Handlers {
	return Handlers{Reservations: r, Calendar: c, Housekeeping: h}
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer, h Handlers) error {
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return errs.Wrap(err, "invalid trusted proxies")
	}
	setupMiddleware(engine, cfg, logger, m)
	setupRoutes(engine, cfg, gatherer, h)
	return nil
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.MetricsMiddleware(m))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, gatherer prometheus.Gatherer, h Handlers) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	{
		restaurant := apiGroup.Group("/restaurants/:restaurantId")

		addRoutes(restaurant.Group("/reservations"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Reservations.CreateReservation},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Reservations.GetReservation},
			{Method: http.MethodPost, Path: "/:id/actions/:action", Handler: h.Reservations.ApplyAction, Mw: []gin.HandlerFunc{middleware.RequireStaffID()}},
		})

		addRoutes(restaurant.Group("/calendar"), []route{
			{Method: http.MethodGet, Path: "/days/:date", Handler: h.Calendar.Day},
			{Method: http.MethodGet, Path: "/months/:month", Handler: h.Calendar.Month},
		})

		addRoutes(restaurant.Group("/housekeeping"), []route{
			{Method: http.MethodGet, Path: "/purge-candidates", Handler: h.Housekeeping.PurgeCandidates},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
