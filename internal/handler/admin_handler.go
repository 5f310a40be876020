package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/application"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/middleware"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
)

// AdminHandler handles the admin console routes.
type AdminHandler struct {
	admin  *application.AdminService
	places *application.PlaceService
	guides *application.GuideService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *application.AdminService, places *application.PlaceService, guides *application.GuideService) *AdminHandler {
	return &AdminHandler{admin: admin, places: places, guides: guides}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, revoked middleware.RevocationChecker) {
	authMW := middleware.AuthMiddleware(jwtManager, revoked)
	adminRole := middleware.RequireRole(access.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/stats", h.Stats)

		admin.GET("/guides", h.ListGuides)
		admin.POST("/guides", h.CreateGuide)
		admin.PATCH("/guides/:id/status", h.ToggleGuideStatus)
		admin.PUT("/guides/:id/place", h.AssignPlace)
		admin.DELETE("/guides/:id", h.DeleteGuide)

		admin.GET("/users", h.ListUsers)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.POST("/places", h.CreatePlace)
		admin.PUT("/places/:id", h.UpdatePlace)
		admin.DELETE("/places/:id", h.DeletePlace)
		admin.POST("/places/:id/gallery", h.AddGalleryImage)
		admin.DELETE("/places/:id/gallery/:index", h.RemoveGalleryImage)

		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/export", h.ExportBookings)

		admin.GET("/tasks", h.ListTasks)
	}
}

// Stats handles GET /api/v1/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ListGuides handles GET /api/v1/admin/guides.
func (h *AdminHandler) ListGuides(c *gin.Context) {
	result, err := h.admin.ListGuides(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateGuide handles POST /api/v1/admin/guides.
func (h *AdminHandler) CreateGuide(c *gin.Context) {
	var req application.CreateGuideRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.admin.CreateGuide(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ToggleGuideStatus handles PATCH /api/v1/admin/guides/:id/status.
func (h *AdminHandler) ToggleGuideStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "guide")
	if !ok {
		return
	}

	result, err := h.admin.ToggleGuideStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AssignPlace handles PUT /api/v1/admin/guides/:id/place.
func (h *AdminHandler) AssignPlace(c *gin.Context) {
	id, ok := pathID(c, "id", "guide")
	if !ok {
		return
	}

	var req application.AssignPlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.guides.AssignPlace(c.Request.Context(), middleware.GetPrincipal(c), id, req.PlaceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteGuide handles DELETE /api/v1/admin/guides/:id.
func (h *AdminHandler) DeleteGuide(c *gin.Context) {
	id, ok := pathID(c, "id", "guide")
	if !ok {
		return
	}

	if err := h.admin.DeleteGuide(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.admin.ListUsers(c.Request.Context(), c.Query("role"), c.Query("search"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// CreatePlace handles POST /api/v1/admin/places.
func (h *AdminHandler) CreatePlace(c *gin.Context) {
	var req application.PlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.places.CreatePlace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdatePlace handles PUT /api/v1/admin/places/:id.
func (h *AdminHandler) UpdatePlace(c *gin.Context) {
	id, ok := pathID(c, "id", "place")
	if !ok {
		return
	}

	var req application.PlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.places.UpdatePlace(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePlace handles DELETE /api/v1/admin/places/:id.
func (h *AdminHandler) DeletePlace(c *gin.Context) {
	id, ok := pathID(c, "id", "place")
	if !ok {
		return
	}

	if err := h.places.DeletePlace(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// AddGalleryImage handles POST /api/v1/admin/places/:id/gallery.
func (h *AdminHandler) AddGalleryImage(c *gin.Context) {
	id, ok := pathID(c, "id", "place")
	if !ok {
		return
	}

	var req application.GalleryImageRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.places.AddGalleryImage(c.Request.Context(), id, req.Image)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveGalleryImage handles DELETE /api/v1/admin/places/:id/gallery/:index.
func (h *AdminHandler) RemoveGalleryImage(c *gin.Context) {
	id, ok := pathID(c, "id", "place")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid gallery index")
		return
	}

	result, err := h.places.RemoveGalleryImage(c.Request.Context(), id, index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.admin.ListBookings(c.Request.Context(), c.Query("status"), c.Query("search"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ExportBookings handles GET /api/v1/admin/bookings/export.
func (h *AdminHandler) ExportBookings(c *gin.Context) {
	pdf, err := h.admin.ExportBookingsPDF(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.pdf", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListTasks handles GET /api/v1/admin/tasks.
func (h *AdminHandler) ListTasks(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.admin.ListTasks(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
