package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gatherly/internal/container"
	"github.com/joshua-takyi/gatherly/internal/handlers"
	"github.com/joshua-takyi/gatherly/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secureCookies := cfg.IsProduction()
	now := handlers.Clock(container.Clock)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "gatherly-api",
			})
		})

		v1.POST("/auth/logout", handlers.Logout(secureCookies))
		if container.AuthService != nil {
			v1.POST("/auth/login", handlers.Login(container.AuthService, secureCookies))
			v1.POST("/auth/refresh", handlers.Refresh(container.AuthService, secureCookies))
		}
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.TokenValidator, container.AuthService, container.Logger, secureCookies))

	es := container.EventService
	eventRoutes := protected.Group("/events")
	{
		eventRoutes.GET("", handlers.ListEvents(es, cfg.Features))
		eventRoutes.POST("", handlers.CreateEvent(es, now))
		eventRoutes.GET("/attended", handlers.ListAttendedEvents(es, now))
		eventRoutes.GET("/status", handlers.ListEventsByTimeStatus(es, now))
		eventRoutes.GET("/organizer/:owner_id", handlers.ListEventsByOrganizer(es))
		eventRoutes.GET("/:id", handlers.GetEvent(es))
		eventRoutes.PUT("/:id", handlers.UpdateEvent(es, now))
		eventRoutes.DELETE("/:id", handlers.DeleteEvent(es, now))
		eventRoutes.GET("/:id/ics", handlers.ExportEventICS(es, now))
		eventRoutes.POST("/:id/attend", handlers.AttendEvent(es, now))
		eventRoutes.POST("/:id/reviews", handlers.AddReview(es, now))
	}

	return r
}
