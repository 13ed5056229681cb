package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mongoschema/internal/apis/dtos"
	"mongoschema/internal/services"
)

type SchemaHandler struct {
	schemaService services.SchemaSyncService
}

func NewSchemaHandler(schemaService services.SchemaSyncService) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
	}
}

// @Summary List collections
// @Description List the collections declared in the manifest
// @Produce json
// @Success 200 {object} dtos.Response

func (h *SchemaHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.Response{
		Success: true,
		Data:    h.schemaService.List(),
	})
}

// @Summary Get a collection schema
// @Description Get the resolved $jsonSchema and the indexes of a collection
// @Produce json
// @Param collection path string true "Collection name"

func (h *SchemaHandler) Get(c *gin.Context) {
	response, statusCode, err := h.schemaService.Describe(c.Param("collection"))
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Synchronize collections
// @Description Apply validators and indexes. An empty body synchronizes every collection.
// @Accept json
// @Produce json
// @Param syncRequest body dtos.SyncRequest false "Collections to synchronize"

func (h *SchemaHandler) Sync(c *gin.Context) {
	var req dtos.SyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorMsg := err.Error()
			c.JSON(http.StatusBadRequest, dtos.Response{
				Success: false,
				Error:   &errorMsg,
			})
			return
		}
	}

	response, statusCode, err := h.schemaService.SyncRequest(c.Request.Context(), &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Data:    response,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}
