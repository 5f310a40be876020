package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/application"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/middleware"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
)

// GuideHandler handles a guide's own profile.
type GuideHandler struct {
	service *application.GuideService
}

// NewGuideHandler creates a new GuideHandler.
func NewGuideHandler(service *application.GuideService) *GuideHandler {
	return &GuideHandler{service: service}
}

// RegisterRoutes registers the guide profile routes.
func (h *GuideHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, revoked middleware.RevocationChecker) {
	authMW := middleware.AuthMiddleware(jwtManager, revoked)

	profile := r.Group("/api/v1/guide")
	profile.Use(authMW, middleware.RequireRole(access.RoleGuide))
	{
		profile.GET("/profile", h.GetProfile)
		profile.PUT("/profile", h.UpdateProfile)
		profile.PUT("/place", h.AssignOwnPlace)
	}
}

// GetProfile handles GET /api/v1/guide/profile.
func (h *GuideHandler) GetProfile(c *gin.Context) {
	result, err := h.service.GetMyProfile(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProfile handles PUT /api/v1/guide/profile.
func (h *GuideHandler) UpdateProfile(c *gin.Context) {
	var req application.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.UpdateMyProfile(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AssignOwnPlace handles PUT /api/v1/guide/place. A null place_id clears it.
func (h *GuideHandler) AssignOwnPlace(c *gin.Context) {
	var req application.AssignPlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	p := middleware.GetPrincipal(c)
	result, err := h.service.AssignPlace(c.Request.Context(), p, p.ID, req.PlaceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
