package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders returns middleware that sets security-related HTTP headers
// on every response. The auth page loads its own CSS and the HTMX script,
// which may come from one of scriptOrigins. OAuth buttons are plain links,
// so no other third-party origins are allowed.
func SecurityHeaders(scriptOrigins ...string) echo.MiddlewareFunc {
	scriptSrc := strings.Join(append([]string{"'self'"}, scriptOrigins...), " ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("Content-Security-Policy",
				"default-src 'self'; "+
					"script-src "+scriptSrc+"; "+
					"style-src 'self'; "+
					"img-src 'self' data:; "+
					"connect-src 'self'; "+
					"frame-ancestors 'none'; "+
					"base-uri 'self'; "+
					"form-action 'self'",
			)

			// TLS is terminated upstream; tell browsers to stay on HTTPS.
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

			// Form responses echo typed values back; never cache them.
			h.Set("Cache-Control", "no-store")

			return next(c)
		}
	}
}
