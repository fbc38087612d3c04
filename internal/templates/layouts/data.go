// data.go provides typed context helpers for passing layout data from
// middleware to templ components. Only simple types are stored so this
// package never imports plugin types.
//
// Data flow: Middleware → Echo Context → LayoutInjector → Go Context → templ
package layouts

import "context"

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey string

const (
	keyCSRFToken  ctxKey = "layout_csrf_token"
	keyHTMX       ctxKey = "layout_htmx"
	keyHTMXScript ctxKey = "layout_htmx_script"
)

// --- Setters (called by the layout injector in app/routes.go) ---

// SetCSRFToken stores the CSRF token for forms to embed.
func SetCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyCSRFToken, token)
}

// SetHTMX marks the request as an HTMX fragment request.
func SetHTMX(ctx context.Context, htmx bool) context.Context {
	return context.WithValue(ctx, keyHTMX, htmx)
}

// SetHTMXScript stores the URL Base loads HTMX from. Empty omits the tag.
func SetHTMXScript(ctx context.Context, src string) context.Context {
	return context.WithValue(ctx, keyHTMXScript, src)
}

// --- Getters (called from templ components) ---

// GetCSRFToken returns the CSRF token, or "".
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(keyCSRFToken).(string)
	return token
}

// IsHTMX reports whether the request asked for a fragment.
func IsHTMX(ctx context.Context) bool {
	htmx, _ := ctx.Value(keyHTMX).(bool)
	return htmx
}

// GetHTMXScript returns the HTMX script URL, or "" if HTMX is disabled.
func GetHTMXScript(ctx context.Context) string {
	src, _ := ctx.Value(keyHTMXScript).(string)
	return src
}
