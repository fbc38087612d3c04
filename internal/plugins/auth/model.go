// Package auth implements the combined login/signup form: field validation,
// the submit seam, the login/signup mode toggle, and the HTTP handlers and
// templ components that render it.
//
// There is no real authentication here. A successful submission is handed to
// a Submitter; the shipped MockSubmitter only logs the attempt.
package auth

import (
	"fmt"
	"strings"
)

// Mode selects which fields are required and which copy is shown.
type Mode int

const (
	// ModeSignup requires names, email, password and terms agreement.
	ModeSignup Mode = iota
	// ModeLogin requires only email and password.
	ModeLogin
)

// String returns the wire name of the mode ("signup" or "login").
func (m Mode) String() string {
	if m == ModeLogin {
		return "login"
	}
	return "signup"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeLogin {
		return ModeSignup
	}
	return ModeLogin
}

// ParseMode converts "login" or "signup" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "login":
		return ModeLogin, nil
	case "signup":
		return ModeSignup, nil
	default:
		return ModeSignup, fmt.Errorf("unknown mode %q", s)
	}
}

// Field names an entry in an ErrorMap.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldAgree     Field = "agree"
	FieldGeneral   Field = "general"
)

// FormState holds the current field values of one form instance. In login
// mode the name fields and Agree are ignored but kept so reset stays simple.
type FormState struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Agree     bool
}

// ErrorMap maps a field to its message. A missing key means the field is valid.
type ErrorMap map[Field]string

// Valid reports whether no field has an error.
func (e ErrorMap) Valid() bool {
	return len(e) == 0
}

// Get returns the message for a field, or "" if the field is valid.
func (e ErrorMap) Get(f Field) string {
	return e[f]
}

// Credentials is what the form hands to the submit backend. Names are empty
// in login mode.
type Credentials struct {
	Mode      Mode
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Operation names the attempted action for logs: "login" or "register".
func (c Credentials) Operation() string {
	if c.Mode == ModeLogin {
		return "login"
	}
	return "register"
}

// View is the presentation state of a form instance that survives between
// requests. Field values are not part of it; they round-trip in the form.
type View struct {
	Mode            Mode `json:"mode"`
	PasswordVisible bool `json:"password_visible"`
}

// User-facing copy.
const (
	msgFirstNameRequired = "First name is required"
	msgLastNameRequired  = "Last name is required"
	msgAgreeRequired     = "You must agree to the terms"
	msgEmailRequired     = "Email is required"
	msgEmailInvalid      = "Invalid email format"
	msgPasswordRequired  = "Password is required"
	msgPasswordTooShort  = "Password must be at least 6 characters"

	msgLoginSuccess  = "Logged in successfully!"
	msgSignupSuccess = "Account created successfully!"
	msgGeneralError  = "Something went wrong. Please try again."
)
