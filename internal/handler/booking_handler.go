package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/application"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/middleware"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/validation"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, revoked middleware.RevocationChecker) {
	authMW := middleware.AuthMiddleware(jwtManager, revoked)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", middleware.RequireRole(access.RoleTourist), h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/upcoming", h.ListUpcoming)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/status", middleware.RequireRole(access.RoleGuide), h.UpdateStatus)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Guides get their requests and
// tourists their own bookings; guide_id or tourist_id select another list
// where the caller may see it.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	ctx := c.Request.Context()

	var (
		result []application.BookingDTO
		err    error
	)
	switch {
	case c.Query("guide_id") != "":
		id, ok := queryID(c, "guide_id")
		if !ok {
			return
		}
		result, err = h.service.ListBookingsForGuide(ctx, p, id)
	case c.Query("tourist_id") != "":
		id, ok := queryID(c, "tourist_id")
		if !ok {
			return
		}
		result, err = h.service.ListBookingsForTourist(ctx, p, id)
	case p.Is(access.RoleGuide):
		result, err = h.service.ListBookingsForGuide(ctx, p, p.ID)
	default:
		result, err = h.service.ListBookingsForTourist(ctx, p, p.ID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListUpcoming handles GET /api/v1/bookings/upcoming.
func (h *BookingHandler) ListUpcoming(c *gin.Context) {
	result, err := h.service.ListUpcoming(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "booking")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), middleware.GetPrincipal(c), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateStatus handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "booking")
	if !ok {
		return
	}

	var req application.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.TransitionStatus(c.Request.Context(), middleware.GetPrincipal(c), bookingID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// bindJSON decodes the body into req and writes a 400 with per-field
// reasons when binding fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, domain.NewFieldValidationError(validation.FromBindingError(err)))
		return false
	}
	return true
}

// pathID parses a uuid path parameter.
func pathID(c *gin.Context, param, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func queryID(c *gin.Context, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(key))
	if err != nil {
		response.BadRequest(c, "invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
