package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"staybook/internal/handler/api"
	"staybook/internal/handler/middleware"
	"staybook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, bookingHandler *api.BookingHandler, couponHandler *api.CouponHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, couponHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, bookingHandler *api.BookingHandler, couponHandler *api.CouponHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Path names are part of the public contract; existing clients call these
	// verbs verbatim.
	user := engine.Group("/api/user")
	{
		// Lookup by reference stays open: confirmation links embed it
		addRoutes(user, []route{
			{Method: http.MethodGet, Path: "/getBookingById", Handler: bookingHandler.GetBookingByID},
		})

		authed := user.Group("")
		authed.Use(authMiddleware.RequireAuth())
		addRoutes(authed, []route{
			{Method: http.MethodPost, Path: "/bookHotel", Handler: bookingHandler.BookHotel},
			{Method: http.MethodGet, Path: "/getBookingByUserId", Handler: bookingHandler.GetBookingsByUser},
			{Method: http.MethodPost, Path: "/updateBookingStatus", Handler: bookingHandler.UpdateBookingStatus},
			{Method: http.MethodPost, Path: "/cancelBooking", Handler: bookingHandler.CancelBooking},
			{Method: http.MethodGet, Path: "/getBookingByOwnerId", Handler: bookingHandler.GetBookingsByOwner},
			{Method: http.MethodPost, Path: "/applyUserCoupon", Handler: couponHandler.ApplyUserCoupon},
			{Method: http.MethodGet, Path: "/getUserCoupons", Handler: couponHandler.GetUserCoupons},
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
		"status":  true,
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
