package routes

import (
	"os"

	"github.com/gin-gonic/gin"

	"authapp/internal/delivery/http/handler"
	"authapp/internal/shared"
)

type HandlersConfig struct {
	AccountHandler *handler.AccountHandler
}

func SetupRouter(handlers HandlersConfig, metrics *shared.AppMetrics, logger *shared.AppLogger) *gin.Engine {
	// gin defaults to debug mode; only an explicit GIN_MODE overrides this
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	shared.SetupGinMiddleware(router, "authapp", metrics, logger)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupAccountRoutes(router, handlers.AccountHandler)

	return router
}

func setupAccountRoutes(router *gin.Engine, accountHandler *handler.AccountHandler) {
	public := router.Group("/")
	{
		public.POST("/register", accountHandler.Register)
		public.POST("/confirm", accountHandler.Confirm)
		public.POST("/authenticate", accountHandler.Authenticate)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests skips the telemetry middleware so handler tests do not
// need a tracer or registry.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupAccountRoutes(router, handlers.AccountHandler)

	return router
}
