// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (Redis client, Echo instance) and wires
// the auth page plugin onto it.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/authpage/internal/apperror"
	"github.com/keyxmakerx/authpage/internal/config"
	"github.com/keyxmakerx/authpage/internal/middleware"
	"github.com/keyxmakerx/authpage/internal/templates/pages"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Redis is the optional Redis client for form view state. Nil means the
	// in-memory store is used.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Trust proxy headers from private ranges so c.RealIP() is the client.
	middleware.TrustedProxies(e, []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fd00::/8",
	})

	app := &App{
		Config: cfg,
		Redis:  rdb,
		Echo:   e,
	}

	app.setupMiddleware()
	e.HTTPErrorHandler = app.errorHandler

	// Serve static files (CSS).
	e.Static("/static", "static")

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first, innermost (CSRF) runs last.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.RequestLogger())
	var scriptOrigins []string
	if origin, _ := a.Config.ScriptOrigin(); origin != "" {
		scriptOrigins = append(scriptOrigins, origin)
	}
	a.Echo.Use(middleware.SecurityHeaders(scriptOrigins...))
	a.Echo.Use(middleware.CSRF(middleware.CSRFConfig{SecureCookie: a.Config.SecureCookies()}))
}

// errorHandler maps AppErrors and Echo HTTP errors to an error page. For
// HTMX requests it retargets the swap to the body so the error page doesn't
// land inside the form.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := defaultErrorMessage(code)

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = defaultErrorMessage(code)
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Retarget", "body")
		c.Response().Header().Set("HX-Reswap", "innerHTML")
	}

	if err := middleware.Render(c, code, pages.ErrorPage(code, message)); err != nil {
		slog.Error("rendering error page", slog.Any("error", err))
	}
}

// defaultErrorMessage returns a user-friendly message for common HTTP status
// codes when no specific message was provided by the error.
func defaultErrorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "The request was invalid or cannot be processed."
	case http.StatusForbidden:
		return "You don't have permission to do that."
	case http.StatusNotFound:
		return "The page you're looking for doesn't exist or has been moved."
	case http.StatusMethodNotAllowed:
		return "This action is not allowed."
	case http.StatusTooManyRequests:
		return "You're making too many requests. Please slow down."
	case http.StatusServiceUnavailable:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "Something went wrong on our end. Please try again."
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting auth page server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
