package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/application"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/middleware"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
)

// AuthHandler handles signup, login and session routes.
type AuthHandler struct {
	service *application.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, revoked middleware.RevocationChecker) {
	authMW := middleware.AuthMiddleware(jwtManager, revoked)

	g := r.Group("/api/v1/auth")
	{
		g.POST("/signup", h.Signup)
		g.POST("/login", h.Login)
		g.POST("/logout", authMW, h.Logout)
		g.GET("/me", authMW, h.Me)
	}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req application.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, _ := middleware.GetClaims(c)
	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"logged_out": true})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.service.Me(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
