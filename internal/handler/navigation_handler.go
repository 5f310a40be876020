package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/middleware"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
)

// NavigationDTO tells the client whether it may render a screen.
type NavigationDTO struct {
	Screen   string          `json:"screen"`
	Decision access.Decision `json:"decision"`
	Target   string          `json:"target,omitempty"`
}

// NavigationHandler exposes the authorization gate to the client router.
type NavigationHandler struct{}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// RegisterRoutes registers the navigation routes. Tokens are optional here.
func (h *NavigationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, revoked middleware.RevocationChecker) {
	nav := r.Group("/api/v1/navigation")
	nav.Use(middleware.OptionalAuthMiddleware(jwtManager, revoked))
	{
		nav.GET("", h.ListScreens)
		nav.GET("/:screen", h.CheckScreen)
	}
}

// ListScreens handles GET /api/v1/navigation.
func (h *NavigationHandler) ListScreens(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	names := access.ScreenNames()
	result := make([]NavigationDTO, 0, len(names))
	for _, name := range names {
		screen, _ := access.LookupScreen(name)
		result = append(result, toNavigationDTO(screen, p))
	}

	response.Success(c, result)
}

// CheckScreen handles GET /api/v1/navigation/:screen.
func (h *NavigationHandler) CheckScreen(c *gin.Context) {
	screen, ok := access.LookupScreen(c.Param("screen"))
	if !ok {
		response.Fail(c, http.StatusNotFound, "not_found", "unknown screen: "+c.Param("screen"))
		return
	}

	response.Success(c, toNavigationDTO(screen, middleware.GetPrincipal(c)))
}

func toNavigationDTO(screen access.Screen, p *access.Principal) NavigationDTO {
	decision := screen.Check(p)
	return NavigationDTO{Screen: screen.Name, Decision: decision, Target: decision.Target()}
}
