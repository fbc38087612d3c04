package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keyxmakerx/authpage/internal/apperror"
)

// ErrSubmitPending is returned by Form.Submit while an earlier submission of
// the same instance has not finished.
var ErrSubmitPending = errors.New("submission already in progress")

// Form is one instance of the login/signup component. It is owned by a
// single goroutine at a time and is not safe for concurrent use.
type Form struct {
	State           FormState
	Errors          ErrorMap
	Success         string
	Mode            Mode
	PasswordVisible bool

	pending   bool
	submitter Submitter
}

// NewForm creates a form with empty fields in the given mode. A nil
// submitter falls back to the mock backend.
func NewForm(mode Mode, submitter Submitter) *Form {
	if submitter == nil {
		submitter = NewMockSubmitter(nil)
	}
	return &Form{
		Errors:    ErrorMap{},
		Mode:      mode,
		submitter: submitter,
	}
}

// RestoreForm rebuilds a form instance from its stored presentation state.
func RestoreForm(v View, submitter Submitter) *Form {
	f := NewForm(v.Mode, submitter)
	f.PasswordVisible = v.PasswordVisible
	return f
}

// View returns the presentation state worth keeping between requests.
func (f *Form) View() View {
	return View{Mode: f.Mode, PasswordVisible: f.PasswordVisible}
}

// Pending reports whether a submission is in flight.
func (f *Form) Pending() bool {
	return f.pending
}

// MarkPending flags the instance as having a submission in flight elsewhere,
// e.g. a duplicate request for the same instance.
func (f *Form) MarkPending() {
	f.pending = true
}

// Submit validates the current state and, if it is valid, hands the
// credentials to the backend and waits for it. Outcomes are written to
// f.Errors and f.Success; the only error returned is ErrSubmitPending.
func (f *Form) Submit(ctx context.Context) error {
	f.Success = ""
	delete(f.Errors, FieldGeneral)

	errs := Validate(f.State, f.Mode)
	if !errs.Valid() {
		f.Errors = errs
		return nil
	}

	if f.pending {
		return ErrSubmitPending
	}

	f.pending = true
	err := f.submitter.Submit(ctx, f.credentials())
	f.pending = false

	if err != nil {
		slog.Warn("auth submission failed",
			slog.String("mode", f.Mode.String()),
			slog.Int("status", apperror.SafeCode(err)),
			slog.String("reason", apperror.SafeMessage(err)),
			slog.Any("error", err),
		)
		f.Errors = ErrorMap{FieldGeneral: msgGeneralError}
		return nil
	}

	if f.Mode == ModeLogin {
		f.Success = msgLoginSuccess
	} else {
		f.Success = msgSignupSuccess
	}
	f.State = FormState{}
	f.Errors = ErrorMap{}
	return nil
}

// ToggleMode switches between login and signup and clears messages. Typed
// field values are kept.
func (f *Form) ToggleMode() {
	f.Mode = f.Mode.Toggle()
	f.Success = ""
	f.Errors = ErrorMap{}
}

// TogglePasswordVisibility switches the password input between obscured and
// plain text. It never touches values or errors.
func (f *Form) TogglePasswordVisibility() {
	f.PasswordVisible = !f.PasswordVisible
}

func (f *Form) credentials() Credentials {
	creds := Credentials{
		Mode:     f.Mode,
		Email:    f.State.Email,
		Password: f.State.Password,
	}
	if f.Mode == ModeSignup {
		creds.FirstName = f.State.FirstName
		creds.LastName = f.State.LastName
	}
	return creds
}
