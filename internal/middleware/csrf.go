package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/authpage/internal/apperror"
)

const (
	// csrfTokenLength is the number of random bytes in a token (64 hex chars).
	csrfTokenLength = 32

	csrfCookieName = "authpage_csrf"

	// csrfFormField is the hidden input every auth form renders. HTMX posts
	// it along with the rest of the form.
	csrfFormField = "csrf_token"

	// csrfHeaderName is accepted for scripted clients that post without the
	// rendered form.
	csrfHeaderName = "X-CSRF-Token"

	csrfContextKey = "csrf_token"
)

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	// SecureCookie sets the Secure flag on the token cookie. Derived from
	// the public base URL, never from request headers.
	SecureCookie bool
}

// CSRF returns double-submit cookie middleware. Every request gets a token
// cookie (issued if missing or malformed) and the token is exposed to
// templates via GetCSRFToken. Mutating requests must echo the cookie's token
// in the csrf_token field or the X-CSRF-Token header.
func CSRF(cfg CSRFConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token, fromCookie := cookieToken(req)
			if !fromCookie {
				var err error
				if token, err = generateCSRFToken(); err != nil {
					return apperror.NewInternal(fmt.Errorf("generating CSRF token: %w", err))
				}
				c.SetCookie(&http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.SecureCookie || req.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(csrfContextKey, token)

			if isSafeMethod(req.Method) {
				return next(c)
			}

			// A freshly issued token can't have been rendered into the form.
			if !fromCookie {
				return rejectCSRF(c, "missing token cookie")
			}

			submitted := req.FormValue(csrfFormField)
			if submitted == "" {
				submitted = req.Header.Get(csrfHeaderName)
			}
			if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				return rejectCSRF(c, "token mismatch")
			}

			return next(c)
		}
	}
}

// cookieToken returns the token cookie's value if it is a well-formed token.
func cookieToken(req *http.Request) (string, bool) {
	cookie, err := req.Cookie(csrfCookieName)
	if err != nil || !validTokenFormat(cookie.Value) {
		return "", false
	}
	return cookie.Value, true
}

func validTokenFormat(s string) bool {
	if len(s) != csrfTokenLength*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func rejectCSRF(c echo.Context, reason string) error {
	slog.Debug("csrf check failed",
		slog.String("reason", reason),
		slog.String("path", c.Request().URL.Path),
		slog.String("ip", c.RealIP()),
	)
	return apperror.NewForbidden("Your session form expired. Reload the page and try again.")
}

// isSafeMethod returns true for HTTP methods that should not change state.
func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetCSRFToken retrieves the CSRF token from the Echo context. The layout
// injector copies it into the Go context for the form's hidden field.
func GetCSRFToken(c echo.Context) string {
	if token, ok := c.Get(csrfContextKey).(string); ok {
		return token
	}
	return ""
}
