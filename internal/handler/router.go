package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"turf-booking/internal/domain/user"
	"turf-booking/internal/handler/api"
	"turf-booking/internal/handler/middleware"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// exporter is implemented by *metrics.Metrics but not by metrics.Nop.
type exporter interface {
	Handler() http.Handler
}

type Handlers struct {
	Booking  *api.BookingHandler
	Resource *api.ResourceHandler
	Auth     *middleware.AuthMiddleware
	// Limiter throttles booking creation; nil disables it.
	Limiter middleware.RateLimiter
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, recorder metrics.Recorder, h Handlers) {
	setupMiddleware(engine, cfg, logger, recorder)
	setupRoutes(engine, cfg, logger, recorder, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger, recorder metrics.Recorder) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger, "/health", cfg.Metrics.Path))
	engine.Use(middleware.MetricsMiddleware(recorder))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, logger *slog.Logger, recorder metrics.Recorder, h Handlers) {
	engine.GET("/health", healthCheck)

	if exp, ok := recorder.(exporter); ok && cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(exp.Handler()))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := h.Auth.RequireRole(user.RoleAdmin)
	var throttle []gin.HandlerFunc
	if h.Limiter != nil {
		throttle = append(throttle, middleware.Throttle(h.Limiter, logger))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(h.Auth.RequireAuth())
	{
		resources := apiGroup.Group("/resources")
		addRoutes(resources, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Resource.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Resource.Get},
			{Method: http.MethodGet, Path: "/:id/bookings", Handler: h.Booking.ListForResource},
			{Method: http.MethodPost, Path: "", Handler: h.Resource.Create, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodPut, Path: "/:id", Handler: h.Resource.Update, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodDelete, Path: "/:id", Handler: h.Resource.Delete, Mw: []gin.HandlerFunc{adminOnly}},
		})

		bookings := apiGroup.Group("/bookings")
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Booking.Create, Mw: throttle},
			{Method: http.MethodGet, Path: "", Handler: h.Booking.ListMine},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
			{Method: http.MethodDelete, Path: "/:id", Handler: h.Booking.Cancel},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(adminOnly)
		addRoutes(admin, []route{
			{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.ListAll},
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
