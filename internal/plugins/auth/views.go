package auth

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/authpage/internal/templates/layouts"
)

// formElementID is the element HTMX swaps on every form interaction.
const formElementID = "auth-form"

// AuthPage renders the full document around the form.
func AuthPage(f *Form, cfg PageConfig) templ.Component {
	return layouts.Base(pageTitle(f.Mode), cfg.Theme.Body, AuthForm(f, cfg))
}

// AuthForm renders the form fragment: header with the mode toggle, fields
// with inline errors, submit button, banners and provider buttons.
func AuthForm(f *Form, cfg PageConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeForm(&b, f, cfg.Theme, layouts.GetCSRFToken(ctx), cfg.Providers)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func pageTitle(m Mode) string {
	if m == ModeLogin {
		return "Welcome Back"
	}
	return "Create Account"
}

func writeForm(b *strings.Builder, f *Form, t Theme, csrfToken string, providers []Provider) {
	signup := f.Mode == ModeSignup

	b.WriteString(`<form id="` + formElementID + `" method="post" action="/auth" novalidate`)
	b.WriteString(` hx-post="/auth" hx-target="#` + formElementID + `" hx-swap="outerHTML"`)
	attr(b, "data-mode", f.Mode.String())
	attr(b, "data-theme", t.Name)
	attr(b, "class", t.Card)
	b.WriteString(`>`)
	hidden(b, "csrf_token", csrfToken)
	hidden(b, "mode", f.Mode.String())
	// Enter in a field activates the first submit button in tree order,
	// which must be plain submit rather than one of the toggles below.
	b.WriteString(`<button type="submit" class="sr-only" tabindex="-1" aria-hidden="true"></button>`)

	// Header with the mode switch.
	b.WriteString(`<div class="flex justify-between items-center">`)
	b.WriteString(`<h1` + classAttr(t.Title) + `>` + esc(pageTitle(f.Mode)) + `</h1>`)
	b.WriteString(`<span` + classAttr(t.Muted) + `>`)
	if signup {
		b.WriteString(`Already have an account? `)
	} else {
		b.WriteString(`New here? `)
	}
	b.WriteString(`<button type="submit" formaction="/auth/mode" formnovalidate hx-post="/auth/mode" name="toggle" value="mode"` + classAttr(t.Link) + `>`)
	if signup {
		b.WriteString(`Sign in`)
	} else {
		b.WriteString(`Sign up`)
	}
	b.WriteString(`</button></span></div>`)

	if signup {
		b.WriteString(`<div class="grid grid-cols-1 md:grid-cols-2 gap-4">`)
		textField(b, t, f, "first_name", "First name", "text", "John", f.State.FirstName, FieldFirstName)
		textField(b, t, f, "last_name", "Last name", "text", "Doe", f.State.LastName, FieldLastName)
		b.WriteString(`</div>`)
	} else {
		// Keep typed names and agreement across a switch back to signup.
		hidden(b, "first_name", f.State.FirstName)
		hidden(b, "last_name", f.State.LastName)
		if f.State.Agree {
			hidden(b, "agree", "true")
		}
	}

	textField(b, t, f, "email", "Email address", "email", "you@example.com", f.State.Email, FieldEmail)
	passwordField(b, t, f)

	if signup {
		b.WriteString(`<div class="flex items-center">`)
		b.WriteString(`<input id="terms" type="checkbox" name="agree" value="true"` + classAttr(t.Checkbox))
		if f.State.Agree {
			b.WriteString(` checked`)
		}
		b.WriteString(`>`)
		b.WriteString(`<label for="terms" class="ml-2 text-sm">I agree to the <a href="#"` + classAttr(t.Link) + `>Terms</a> and <a href="#"` + classAttr(t.Link) + `>Privacy Policy</a></label>`)
		b.WriteString(`</div>`)
		fieldError(b, t, f.Errors.Get(FieldAgree))
	}

	b.WriteString(`<button type="submit"` + classAttr(t.Button))
	if f.Pending() {
		b.WriteString(` disabled aria-busy="true">Submitting…`)
	} else if signup {
		b.WriteString(`>Create Account`)
	} else {
		b.WriteString(`>Sign In`)
	}
	b.WriteString(`</button>`)

	if f.Success != "" {
		b.WriteString(`<p role="status"` + classAttr(t.Success) + `>` + esc(f.Success) + `</p>`)
	}
	if msg := f.Errors.Get(FieldGeneral); msg != "" {
		b.WriteString(`<p role="alert"` + classAttr(t.Banner) + `>` + esc(msg) + `</p>`)
	}

	if len(providers) > 0 {
		b.WriteString(`<div class="relative text-center text-sm"><span` + classAttr(t.Divider) + `>Or continue with</span></div>`)
		b.WriteString(`<div class="flex gap-3">`)
		for _, p := range providers {
			b.WriteString(`<a href="/auth/oauth/` + esc(p.Name) + `" hx-boost="false"` + classAttr(t.OAuthButton) + `>` + esc(p.Label) + `</a>`)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</form>`)
}

func textField(b *strings.Builder, t Theme, f *Form, name, label, inputType, placeholder, value string, field Field) {
	b.WriteString(`<div>`)
	b.WriteString(`<label for="` + name + `"` + classAttr(t.Label) + `>` + esc(label) + `</label>`)
	b.WriteString(`<input id="` + name + `" name="` + name + `" type="` + inputType + `"`)
	attr(b, "placeholder", placeholder)
	attr(b, "value", value)
	attr(b, "class", t.Input)
	b.WriteString(`>`)
	fieldError(b, t, f.Errors.Get(field))
	b.WriteString(`</div>`)
}

func passwordField(b *strings.Builder, t Theme, f *Form) {
	inputType, toggleLabel := "password", "Show password"
	if f.PasswordVisible {
		inputType, toggleLabel = "text", "Hide password"
	}

	b.WriteString(`<div>`)
	b.WriteString(`<label for="password"` + classAttr(t.Label) + `>Password</label>`)
	b.WriteString(`<div class="relative">`)
	b.WriteString(`<input id="password" name="password" type="` + inputType + `" placeholder="••••••••"`)
	attr(b, "value", f.State.Password)
	attr(b, "class", t.Input)
	b.WriteString(`>`)
	b.WriteString(`<button type="submit" formaction="/auth/password" formnovalidate hx-post="/auth/password" name="toggle" value="password" class="absolute inset-y-0 right-0 px-3"`)
	attr(b, "aria-label", toggleLabel)
	b.WriteString(`>` + esc(toggleLabel) + `</button>`)
	b.WriteString(`</div>`)
	fieldError(b, t, f.Errors.Get(FieldPassword))
	b.WriteString(`</div>`)
}

func fieldError(b *strings.Builder, t Theme, msg string) {
	if msg == "" {
		return
	}
	b.WriteString(`<p` + classAttr(t.FieldError) + `>` + esc(msg) + `</p>`)
}

func hidden(b *strings.Builder, name, value string) {
	b.WriteString(`<input type="hidden" name="` + name + `"`)
	attr(b, "value", value)
	b.WriteString(`>`)
}

func attr(b *strings.Builder, name, value string) {
	b.WriteString(` ` + name + `="` + esc(value) + `"`)
}

func classAttr(class string) string {
	return ` class="` + esc(class) + `"`
}

func esc(s string) string {
	return templ.EscapeString(s)
}
