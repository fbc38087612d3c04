package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/authpage/internal/middleware"
)

// RegisterRoutes sets up the auth page routes on the given Echo instance.
// All routes are public. Submissions are rate-limited per client IP to
// submitRate per minute.
func RegisterRoutes(e *echo.Echo, h *Handler, submitRate int) {
	e.GET("/auth", h.Show)
	e.POST("/auth", h.Submit, middleware.RateLimit(submitRate, time.Minute))
	e.POST("/auth/mode", h.ToggleMode)
	e.POST("/auth/password", h.TogglePassword)
	e.GET("/auth/oauth/:provider", h.OAuthRedirect)
}
