package auth

import (
	"fmt"
	"strings"
	"time"
)

// Theme is the visual variant of the auth page. Both variants render the
// same markup; only the class sets differ.
type Theme struct {
	Name string

	Body        string
	Card        string
	Title       string
	Muted       string
	Label       string
	Input       string
	FieldError  string
	Link        string
	Checkbox    string
	Button      string
	Success     string
	Banner      string
	Divider     string
	OAuthButton string
}

// ThemeLight is the white card on a pale gradient.
var ThemeLight = Theme{
	Name:        "light",
	Body:        "min-h-screen bg-gradient-to-br from-indigo-50 to-blue-50 flex items-center justify-center p-4",
	Card:        "w-full max-w-md bg-white rounded-2xl shadow-xl p-8 space-y-6",
	Title:       "text-2xl font-bold text-gray-900",
	Muted:       "text-sm text-gray-500",
	Label:       "block text-sm font-medium text-gray-700 mb-1",
	Input:       "w-full px-4 py-2.5 border border-gray-300 rounded-lg focus:ring-2 focus:ring-blue-500 outline-none",
	FieldError:  "text-red-500 text-xs mt-1",
	Link:        "text-blue-600 hover:text-blue-800 font-medium",
	Checkbox:    "h-4 w-4 text-blue-600 border-gray-300 rounded",
	Button:      "w-full py-3 rounded-lg bg-gradient-to-r from-blue-500 to-indigo-600 text-white font-medium",
	Success:     "text-green-600 text-sm text-center mt-3",
	Banner:      "text-red-600 text-sm text-center mt-3",
	Divider:     "px-2 bg-gray-50 text-gray-500",
	OAuthButton: "flex-1 inline-flex justify-center py-2.5 border border-gray-300 rounded-lg bg-white text-gray-700",
}

// ThemeGlass is the translucent card on the dark palette.
var ThemeGlass = Theme{
	Name:        "glass",
	Body:        "min-h-screen bg-[#1E1B2E] flex items-center justify-center p-4",
	Card:        "w-full max-w-md bg-[#2B2640]/60 backdrop-blur-xl border border-white/10 rounded-2xl shadow-2xl p-8 space-y-6",
	Title:       "text-2xl font-bold text-white",
	Muted:       "text-sm text-gray-400",
	Label:       "block text-sm font-medium text-gray-300 mb-1",
	Input:       "w-full px-4 py-2.5 bg-white/5 border border-white/10 rounded-lg text-white focus:ring-2 focus:ring-[#7B5CFA] outline-none",
	FieldError:  "text-red-400 text-xs mt-1",
	Link:        "text-[#7B5CFA] hover:text-white font-medium",
	Checkbox:    "h-4 w-4 accent-[#7B5CFA]",
	Button:      "w-full py-3 rounded-lg bg-[#7B5CFA] text-white font-medium",
	Success:     "text-green-400 text-sm text-center mt-3",
	Banner:      "text-red-400 text-sm text-center mt-3",
	Divider:     "px-2 bg-[#2B2640] text-gray-400",
	OAuthButton: "flex-1 inline-flex justify-center py-2.5 border border-white/10 rounded-lg bg-white/5 text-white",
}

// ThemeByName returns the theme called name ("light" or "glass").
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "light":
		return ThemeLight, nil
	case "glass":
		return ThemeGlass, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
}

// Provider is an external sign-in button. Clicking it only navigates to URL.
type Provider struct {
	Name  string
	Label string
	URL   string
}

// PageConfig configures the auth page.
type PageConfig struct {
	Theme         Theme
	DefaultMode   Mode
	Providers     []Provider
	Submitter     Submitter
	SubmitTimeout time.Duration

	// SecureCookies marks the instance cookie Secure even on plain-HTTP
	// requests, for deployments behind a TLS-terminating proxy.
	SecureCookies bool
}

// Option customizes a PageConfig.
type Option func(*PageConfig)

// NewPageConfig returns the default configuration (light theme, signup
// mode, mock backend, no providers) with opts applied.
func NewPageConfig(opts ...Option) PageConfig {
	cfg := PageConfig{
		Theme:         ThemeLight,
		DefaultMode:   ModeSignup,
		SubmitTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Submitter == nil {
		cfg.Submitter = NewMockSubmitter(nil)
	}
	return cfg
}

// WithTheme sets the visual variant.
func WithTheme(t Theme) Option {
	return func(c *PageConfig) {
		c.Theme = t
	}
}

// WithDefaultMode sets the mode new instances start in.
func WithDefaultMode(m Mode) Option {
	return func(c *PageConfig) {
		c.DefaultMode = m
	}
}

// WithProviders sets the external sign-in buttons, in display order.
func WithProviders(p ...Provider) Option {
	return func(c *PageConfig) {
		c.Providers = p
	}
}

// WithSubmitter replaces the mock backend.
func WithSubmitter(s Submitter) Option {
	return func(c *PageConfig) {
		c.Submitter = s
	}
}

// WithSubmitTimeout bounds each backend call.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *PageConfig) {
		c.SubmitTimeout = d
	}
}

// WithSecureCookies sets the Secure flag on the instance cookie.
func WithSecureCookies(secure bool) Option {
	return func(c *PageConfig) {
		c.SecureCookies = secure
	}
}

// provider finds a configured provider by name.
func (c PageConfig) provider(name string) (Provider, bool) {
	for _, p := range c.Providers {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Provider{}, false
}
