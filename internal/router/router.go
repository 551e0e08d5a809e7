package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chronolog/internal/handler"
	"chronolog/internal/middleware"
	"chronolog/internal/service"
)

func New(
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	stopwatchHandler *handler.StopwatchHandler,
	groupHandler *handler.GroupHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	stopwatches := api.Group("/stopwatches")
	stopwatches.Use(middleware.Auth(authService))
	stopwatches.POST("", stopwatchHandler.Create)
	stopwatches.GET("", stopwatchHandler.List)
	stopwatches.GET("/:id", stopwatchHandler.Get)
	stopwatches.DELETE("/:id", stopwatchHandler.Delete)
	stopwatches.POST("/:id/start", stopwatchHandler.Start)
	stopwatches.POST("/:id/stop", stopwatchHandler.Stop)
	stopwatches.POST("/:id/resume", stopwatchHandler.Resume)
	stopwatches.POST("/:id/reset", stopwatchHandler.Reset)
	stopwatches.POST("/:id/events", stopwatchHandler.AddEvent)
	stopwatches.DELETE("/:id/events/:eventID", stopwatchHandler.RemoveEvent)
	stopwatches.GET("/:id/elapsed", stopwatchHandler.Elapsed)
	stopwatches.GET("/:id/gap", stopwatchHandler.Gap)
	stopwatches.GET("/:id/score", stopwatchHandler.Score)

	groups := api.Group("/groups")
	groups.Use(middleware.Auth(authService))
	groups.POST("", groupHandler.Create)
	groups.GET("", groupHandler.List)
	groups.GET("/:id", groupHandler.Get)
	groups.DELETE("/:id", groupHandler.Delete)
	groups.GET("/:id/report", groupHandler.Report)

	return engine
}
