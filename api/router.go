package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelagency/config"
	_ "github.com/Domenick1991/travelagency/internal/docs"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Packages     *PackageHandler
	Destinations *DestinationHandler
	Customers    *CustomerHandler
	Bookings     *BookingHandler
	Cart         *CartHandler
}

// NewRouter builds the gin engine serving /api/v1, health and swagger.
func NewRouter(cfg config.HTTPConfig, h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(logger))
	router.Use(RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	router.Use(RateLimit(cfg.RateLimit, cfg.RateBurst, logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	v1 := router.Group("/api/v1")
	h.Packages.Register(v1.Group("/packages"))
	h.Destinations.Register(v1.Group("/destinations"))
	h.Customers.Register(v1.Group("/customers"))
	h.Bookings.Register(v1.Group("/bookings"))
	h.Cart.Register(v1.Group("/cart"))

	return router
}

// corsConfig allows credentials. With no origins configured every request
// origin is echoed back.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
