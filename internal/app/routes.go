package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/authpage/internal/middleware"
	"github.com/keyxmakerx/authpage/internal/plugins/auth"
	"github.com/keyxmakerx/authpage/internal/templates/layouts"
)

// RegisterRoutes sets up all application routes: the landing redirect, the
// health check and the auth page plugin.
func (a *App) RegisterRoutes() error {
	e := a.Echo

	// Copy per-request layout data into the Go context for templ.
	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
		ctx = layouts.SetHTMXScript(ctx, a.Config.HTMXScriptURL)
		return layouts.SetHTMX(ctx, middleware.IsHTMX(c))
	}

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/auth")
	})

	e.GET("/healthz", a.healthz)

	pageCfg, err := a.pageConfig()
	if err != nil {
		return err
	}
	handler := auth.NewHandler(pageCfg, a.viewStore(), a.Config.Auth.StateTTL)
	auth.RegisterRoutes(e, handler, a.Config.Auth.SubmitRate)

	return nil
}

// healthz reports liveness, and Redis reachability when Redis is in use.
func (a *App) healthz(c echo.Context) error {
	if a.Redis != nil {
		if err := a.Redis.Ping(c.Request().Context()).Err(); err != nil {
			slog.Warn("health check: redis unreachable", slog.Any("error", err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": "unreachable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// pageConfig builds the auth page configuration from app config.
func (a *App) pageConfig() (auth.PageConfig, error) {
	theme, err := auth.ThemeByName(a.Config.Auth.Theme)
	if err != nil {
		return auth.PageConfig{}, fmt.Errorf("auth page theme: %w", err)
	}
	mode, err := auth.ParseMode(a.Config.Auth.DefaultMode)
	if err != nil {
		return auth.PageConfig{}, fmt.Errorf("auth page default mode: %w", err)
	}

	return auth.NewPageConfig(
		auth.WithTheme(theme),
		auth.WithDefaultMode(mode),
		auth.WithSubmitTimeout(a.Config.Auth.SubmitTimeout),
		auth.WithSecureCookies(a.Config.SecureCookies()),
		auth.WithSubmitter(auth.NewMockSubmitter(slog.Default())),
		auth.WithProviders(
			auth.Provider{Name: "google", Label: "Google", URL: a.Config.Auth.GoogleURL},
			auth.Provider{Name: "apple", Label: "Apple", URL: a.Config.Auth.AppleURL},
		),
	), nil
}

// viewStore picks the Redis store when a client is configured. In-flight
// marks outlive the submit timeout so a slow backend can't be double-posted.
func (a *App) viewStore() auth.ViewStore {
	lockTTL := a.Config.Auth.SubmitTimeout + 5*time.Second
	if a.Redis != nil {
		return auth.NewRedisStore(a.Redis, a.Config.Auth.StateTTL, lockTTL)
	}
	return auth.NewMemoryStore(a.Config.Auth.StateTTL, lockTTL)
}
