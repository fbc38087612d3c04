package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmxConfig keeps HTMX from injecting its indicator <style>, which the
// style-src CSP would block, and makes it swap error responses too: the
// 409 pending form and the retargeted error page are meant to be shown.
const htmxConfig = `{"includeIndicatorStyles":false,"responseHandling":[` +
	`{"code":"204","swap":false},` +
	`{"code":"[23]..","swap":true},` +
	`{"code":"[45]..","swap":true,"error":true}]}`

// Base wraps content in the HTML document shell. bodyClass comes from the
// active theme. The HTMX script tag is emitted only when a script URL is in
// the context; without it every form falls back to full page posts.
func Base(title, bodyClass string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head>` +
			`<meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<link rel="stylesheet" href="/static/css/app.css">`
		if src := GetHTMXScript(ctx); src != "" {
			head += `<meta name="htmx-config" content="` + templ.EscapeString(htmxConfig) + `">` +
				`<script src="` + templ.EscapeString(src) + `" defer></script>`
		}
		head += `</head><body class="` + templ.EscapeString(bodyClass) + `">`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
