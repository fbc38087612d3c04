// Package pages holds full-page templ components that don't belong to a plugin.
package pages

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/authpage/internal/templates/layouts"
)

// ErrorPage renders a minimal error page with the status code and a
// client-safe message. HTMX requests get only the <main> block, which the
// error handler swaps into the existing body.
func ErrorPage(code int, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<main class="max-w-md mx-auto mt-24 text-center">`+
				`<h1 class="text-5xl font-bold text-gray-900">`+strconv.Itoa(code)+`</h1>`+
				`<p class="mt-2 text-gray-500">`+templ.EscapeString(http.StatusText(code))+`</p>`+
				`<p class="mt-6 text-gray-700">`+templ.EscapeString(message)+`</p>`+
				`<a class="mt-8 inline-block text-blue-600 hover:text-blue-800" href="/auth">Back to sign in</a>`+
				`</main>`)
		return err
	})
	page := layouts.Base(http.StatusText(code), "min-h-screen bg-gray-50", body)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if layouts.IsHTMX(ctx) {
			return body.Render(ctx, w)
		}
		return page.Render(ctx, w)
	})
}
