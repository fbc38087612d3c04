package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/authpage/internal/apperror"
	"github.com/keyxmakerx/authpage/internal/middleware"
)

// instanceCookieName identifies the browser's form instance.
const instanceCookieName = "authpage_instance"

// Handler handles HTTP requests for the auth page. Each request rebuilds the
// Form instance from the ViewStore and the posted fields, runs exactly one
// operation on it, stores the resulting view and renders.
type Handler struct {
	cfg      PageConfig
	store    ViewStore
	stateTTL time.Duration
}

// NewHandler creates a new auth page handler.
func NewHandler(cfg PageConfig, store ViewStore, stateTTL time.Duration) *Handler {
	return &Handler{cfg: cfg, store: store, stateTTL: stateTTL}
}

// Show renders the auth page (GET /auth). An optional ?mode= seeds the mode
// of a new instance; existing instances keep theirs.
func (h *Handler) Show(c echo.Context) error {
	ctx := c.Request().Context()

	id, view, found, err := h.loadView(c)
	if err != nil {
		return err
	}
	if !found {
		if m := c.QueryParam("mode"); m != "" {
			mode, err := ParseMode(m)
			if err != nil {
				return apperror.NewBadRequest("mode must be \"login\" or \"signup\"")
			}
			view.Mode = mode
		}
	}

	f := RestoreForm(view, h.cfg.Submitter)
	if err := h.saveView(ctx, c, id, f); err != nil {
		return err
	}
	return h.render(c, http.StatusOK, f)
}

// Submit processes a form submission (POST /auth).
func (h *Handler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	id, f, err := h.restore(c)
	if err != nil {
		return err
	}

	acquired, err := h.store.AcquireSubmit(ctx, id)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("acquiring submit guard: %w", err))
	}
	if !acquired {
		f.MarkPending()
		return h.render(c, http.StatusConflict, f)
	}
	defer func() {
		// The request context may already be cancelled here.
		if err := h.store.ReleaseSubmit(context.WithoutCancel(ctx), id); err != nil {
			slog.Warn("failed to release submit guard",
				slog.String("instance", id),
				slog.Any("error", err),
			)
		}
	}()

	submitCtx, cancel := context.WithTimeout(ctx, h.cfg.SubmitTimeout)
	defer cancel()

	if err := f.Submit(submitCtx); err != nil {
		if errors.Is(err, ErrSubmitPending) {
			return h.render(c, http.StatusConflict, f)
		}
		return apperror.NewInternal(err)
	}

	if err := h.saveView(ctx, c, id, f); err != nil {
		return err
	}
	return h.render(c, http.StatusOK, f)
}

// ToggleMode switches between login and signup (POST /auth/mode). Posted
// values are echoed back unchanged.
func (h *Handler) ToggleMode(c echo.Context) error {
	id, f, err := h.restore(c)
	if err != nil {
		return err
	}

	f.ToggleMode()

	if err := h.saveView(c.Request().Context(), c, id, f); err != nil {
		return err
	}
	return h.render(c, http.StatusOK, f)
}

// TogglePassword shows or hides the password (POST /auth/password).
func (h *Handler) TogglePassword(c echo.Context) error {
	id, f, err := h.restore(c)
	if err != nil {
		return err
	}

	f.TogglePasswordVisibility()

	if err := h.saveView(c.Request().Context(), c, id, f); err != nil {
		return err
	}
	return h.render(c, http.StatusOK, f)
}

// OAuthRedirect navigates to an external provider (GET /auth/oauth/:provider).
// No token exchange happens here.
func (h *Handler) OAuthRedirect(c echo.Context) error {
	p, ok := h.cfg.provider(c.Param("provider"))
	if !ok {
		return apperror.NewNotFound("unknown sign-in provider")
	}
	return c.Redirect(http.StatusSeeOther, p.URL)
}

// restore rebuilds the form instance for a POST: view from the store, field
// values from the body. If the stored view expired, the posted mode is used.
func (h *Handler) restore(c echo.Context) (string, *Form, error) {
	id, view, found, err := h.loadView(c)
	if err != nil {
		return "", nil, err
	}
	if !found {
		if mode, err := ParseMode(c.FormValue("mode")); err == nil {
			view.Mode = mode
		}
	}

	f := RestoreForm(view, h.cfg.Submitter)
	f.State = bindFormState(c)
	return id, f, nil
}

// loadView resolves the instance cookie and its stored view. Unknown or
// malformed cookies start a fresh instance in the default mode.
func (h *Handler) loadView(c echo.Context) (string, View, bool, error) {
	fresh := View{Mode: h.cfg.DefaultMode}

	cookie, err := c.Cookie(instanceCookieName)
	if err != nil || cookie.Value == "" {
		return uuid.NewString(), fresh, false, nil
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return uuid.NewString(), fresh, false, nil
	}

	view, found, err := h.store.Load(c.Request().Context(), cookie.Value)
	if err != nil {
		return "", View{}, false, apperror.NewInternal(fmt.Errorf("loading form view: %w", err))
	}
	if !found {
		return cookie.Value, fresh, false, nil
	}
	return cookie.Value, view, true, nil
}

// saveView stores the instance's view and refreshes the instance cookie.
func (h *Handler) saveView(ctx context.Context, c echo.Context, id string, f *Form) error {
	if err := h.store.Save(ctx, id, f.View()); err != nil {
		return apperror.NewInternal(fmt.Errorf("saving form view: %w", err))
	}

	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     instanceCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies || req.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.stateTTL.Seconds()),
	})
	return nil
}

// render writes the fragment for HTMX requests and the full page otherwise.
func (h *Handler) render(c echo.Context, status int, f *Form) error {
	if middleware.IsHTMX(c) {
		return middleware.Render(c, status, AuthForm(f, h.cfg))
	}
	return middleware.Render(c, status, AuthPage(f, h.cfg))
}

// bindFormState reads the posted field values. Values are kept verbatim;
// trimming only happens inside validation.
func bindFormState(c echo.Context) FormState {
	return FormState{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Agree:     isChecked(c.FormValue("agree")),
	}
}

// isChecked accepts the values browsers and scripts send for a checkbox.
func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
