package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"crs-booking-engine/internal/handler/api"
	"crs-booking-engine/internal/handler/middleware"
	"crs-booking-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Session      *api.SessionHandler
	Booking      *api.BookingHandler
	Webhook      *api.WebhookHandler
	Availability *api.AvailabilityHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, sessionMiddleware *middleware.SessionMiddleware, rateLimiter *middleware.RateLimiter) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, sessionMiddleware, rateLimiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, handlers Handlers, sessionMiddleware *middleware.SessionMiddleware, rateLimiter *middleware.RateLimiter) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/availability", Handler: handlers.Availability.Search},
			{Method: http.MethodPost, Path: "/webhooks/payment", Handler: handlers.Webhook.HandlePayment},
		})

		sessions := apiGroup.Group("/sessions")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodPost, Path: "", Handler: handlers.Session.CreateSession},
			})

			current := sessions.Group("/current")
			current.Use(sessionMiddleware.RequireSession())
			addRoutes(current, []route{
				{Method: http.MethodGet, Path: "", Handler: handlers.Session.GetSession},
				{Method: http.MethodPut, Path: "/rooms", Handler: handlers.Session.SelectRoom},
				{Method: http.MethodPatch, Path: "/rooms", Handler: handlers.Session.ChangeQuantity},
				{Method: http.MethodDelete, Path: "/rooms/:roomTypeId", Handler: handlers.Session.RemoveSelection},
				{Method: http.MethodPut, Path: "/guest", Handler: handlers.Session.SetGuestDetails},
				{Method: http.MethodPut, Path: "/add-ons", Handler: handlers.Session.SetAddOns},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{
					Method:  http.MethodPost,
					Path:    "",
					Handler: handlers.Booking.FinalizeBooking,
					Mw:      []gin.HandlerFunc{rateLimiter.Limit(), sessionMiddleware.RequireSession()},
				},
				{Method: http.MethodGet, Path: "/:id", Handler: handlers.Booking.GetBooking},
				{Method: http.MethodGet, Path: "/number/:number", Handler: handlers.Booking.GetBookingByNumber},
			})
		}
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
