package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/application"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
)

// DirectoryHandler serves the public guide and place directory.
type DirectoryHandler struct {
	directory *application.DirectoryService
	places    *application.PlaceService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directory *application.DirectoryService, places *application.PlaceService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, places: places}
}

// RegisterRoutes registers the public directory routes.
func (h *DirectoryHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/directory", h.Overview)
		v1.GET("/places", h.ListPlaces)
		v1.GET("/places/:id", h.GetPlace)
		v1.GET("/places/:id/guides", h.GuidesForPlace)
		v1.GET("/guides/:id", h.GetGuide)
	}
}

// Overview handles GET /api/v1/directory.
func (h *DirectoryHandler) Overview(c *gin.Context) {
	result, err := h.directory.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListPlaces handles GET /api/v1/places.
func (h *DirectoryHandler) ListPlaces(c *gin.Context) {
	result, err := h.places.ListPlaces(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPlace handles GET /api/v1/places/:id.
func (h *DirectoryHandler) GetPlace(c *gin.Context) {
	id, ok := pathID(c, "id", "place")
	if !ok {
		return
	}

	result, err := h.places.GetPlace(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GuidesForPlace handles GET /api/v1/places/:id/guides.
func (h *DirectoryHandler) GuidesForPlace(c *gin.Context) {
	id, ok := pathID(c, "id", "place")
	if !ok {
		return
	}

	result, err := h.directory.GuidesForPlace(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetGuide handles GET /api/v1/guides/:id.
func (h *DirectoryHandler) GetGuide(c *gin.Context) {
	id, ok := pathID(c, "id", "guide")
	if !ok {
		return
	}

	result, err := h.directory.GetGuide(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
