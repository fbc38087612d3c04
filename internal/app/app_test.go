package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/authpage/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		Port:          8080,
		BaseURL:       "http://localhost:8080",
		HTMXScriptURL: "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js",
		Auth: config.AuthConfig{
			Theme:         "light",
			DefaultMode:   "signup",
			StateTTL:      time.Hour,
			SubmitTimeout: time.Second,
			SubmitRate:    100,
			GoogleURL:     "https://accounts.google.com/signin",
			AppleURL:      "https://appleid.apple.com/auth/authorize",
		},
	}
}

func newTestApp(t *testing.T, rdb *redis.Client) *App {
	t.Helper()
	a := New(testConfig(), rdb)
	if err := a.RegisterRoutes(); err != nil {
		t.Fatalf("registering routes: %v", err)
	}
	return a
}

func (a *App) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- Routes ---

func TestRoot_RedirectsToAuth(t *testing.T) {
	a := newTestApp(t, nil)
	rec := a.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth" {
		t.Errorf("expected Location /auth, got %q", loc)
	}
}

func TestHealthz_WithoutRedis(t *testing.T) {
	a := newTestApp(t, nil)
	rec := a.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestHealthz_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	a := newTestApp(t, rdb)

	rec := a.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with redis up, got %d", rec.Code)
	}

	mr.Close()
	rec = a.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with redis down, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"degraded"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAuthPage_LoadsHTMXUnderCSP(t *testing.T) {
	a := newTestApp(t, nil)
	rec := a.serve(httptest.NewRequest(http.MethodGet, "/auth", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<script src="https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js" defer></script>`) {
		t.Error("expected HTMX script tag")
	}
	if !strings.Contains(body, `name="htmx-config"`) {
		t.Error("expected htmx-config meta")
	}
	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "script-src 'self' https://unpkg.com;") {
		t.Errorf("expected script origin in CSP, got %q", csp)
	}
}

func TestSubmit_ThroughMiddlewareStack(t *testing.T) {
	a := newTestApp(t, nil)
	page := a.serve(httptest.NewRequest(http.MethodGet, "/auth", nil))

	csrf := findCookie(page, "authpage_csrf")
	instance := findCookie(page, "authpage_instance")
	if csrf == nil || instance == nil {
		t.Fatal("expected csrf and instance cookies")
	}
	if !strings.Contains(page.Body.String(), `name="csrf_token" value="`+csrf.Value+`"`) {
		t.Fatal("expected the form to embed the CSRF token")
	}

	form := url.Values{
		"csrf_token": {csrf.Value},
		"mode":       {"signup"},
		"first_name": {"John"},
		"last_name":  {"Doe"},
		"email":      {"john@example.com"},
		"password":   {"secret1"},
		"agree":      {"true"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("HX-Request", "true")
	req.AddCookie(csrf)
	req.AddCookie(instance)

	rec := a.serve(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Account created successfully!") {
		t.Error("expected success message")
	}
}

// --- Error handler ---

func TestErrorHandler_AppErrorRendersPage(t *testing.T) {
	a := newTestApp(t, nil)
	rec := a.serve(httptest.NewRequest(http.MethodGet, "/auth/oauth/github", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<html", "404", "unknown sign-in provider", `href="/auth"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if rec.Header().Get("HX-Retarget") != "" {
		t.Error("expected no HTMX headers on a full page request")
	}
}

func TestErrorHandler_HTMXRetargetsBody(t *testing.T) {
	a := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/auth/oauth/github", nil)
	req.Header.Set("HX-Request", "true")
	rec := a.serve(req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := rec.Header().Get("HX-Retarget"); got != "body" {
		t.Errorf("expected HX-Retarget body, got %q", got)
	}
	if got := rec.Header().Get("HX-Reswap"); got != "innerHTML" {
		t.Errorf("expected HX-Reswap innerHTML, got %q", got)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "<main") || strings.Contains(body, "<html") {
		t.Errorf("expected a <main> fragment, got %.60q", body)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	a := newTestApp(t, nil)
	rec := a.serve(httptest.NewRequest(http.MethodGet, "/no-such-page", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not Found") {
		t.Error("expected echo's message on the error page")
	}
}

func TestErrorHandler_CSRFRejection(t *testing.T) {
	a := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader("email=a%40b.co"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := a.serve(req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your session form expired.") {
		t.Error("expected the CSRF message")
	}
}

func TestErrorHandler_PlainErrorIsGeneric(t *testing.T) {
	a := newTestApp(t, nil)
	a.Echo.GET("/boom", func(c echo.Context) error {
		return errors.New("dial tcp 10.0.0.5:3306: connection refused")
	})
	rec := a.serve(httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "10.0.0.5") {
		t.Error("internal error text leaked to the page")
	}
	if !strings.Contains(body, defaultErrorMessage(http.StatusInternalServerError)) {
		t.Error("expected the generic message")
	}
}

func TestDefaultErrorMessage(t *testing.T) {
	if defaultErrorMessage(http.StatusTooManyRequests) == defaultErrorMessage(http.StatusTeapot) {
		t.Error("expected a specific message for 429")
	}
}
