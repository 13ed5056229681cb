package routes

import (
	"github.com/gin-gonic/gin"

	"mongoschema/internal/apis/handlers"
)

func SetupSchemaRoutes(router *gin.Engine, schemaHandler *handlers.SchemaHandler) {
	schemas := router.Group("/api/schemas")
	{
		schemas.GET("", schemaHandler.List)
		schemas.GET("/:collection", schemaHandler.Get)
		schemas.POST("/sync", schemaHandler.Sync)
	}
}
