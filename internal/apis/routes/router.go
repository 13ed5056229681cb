package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mongoschema/internal/apis/handlers"
	"mongoschema/internal/middleware"
)

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(schemaHandler *handlers.SchemaHandler, allowedOrigin string) *gin.Engine {
	ginApp := gin.New()

	ginApp.Use(middleware.RequestIDMiddleware())
	ginApp.Use(middleware.CustomRecoveryMiddleware())
	ginApp.Use(gin.Logger())

	ginApp.Use(cors.New(cors.Config{
		AllowOrigins: []string{allowedOrigin},
		AllowMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"User-Agent",
			"Referer",
			middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	SetupDefaultRoutes(ginApp)
	SetupSchemaRoutes(ginApp, schemaHandler)
	return ginApp
}
