package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/keyxmakerx/authpage/internal/apperror"
)

// --- Mock Submitter ---

// mockSubmitter implements Submitter for testing.
type mockSubmitter struct {
	submitFn func(ctx context.Context, creds Credentials) error
	// Capture fields for assertions.
	calls     int
	lastCreds Credentials
}

func (m *mockSubmitter) Submit(ctx context.Context, creds Credentials) error {
	m.calls++
	m.lastCreds = creds
	if m.submitFn != nil {
		return m.submitFn(ctx, creds)
	}
	return nil
}

func assertFields(t *testing.T, errs ErrorMap, want ...Field) {
	t.Helper()
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors %v, got %v", len(want), want, errs)
	}
	for _, f := range want {
		if errs.Get(f) == "" {
			t.Errorf("expected error for %s, got %v", f, errs)
		}
	}
}

// --- Submit ---

func TestSubmit_SignupAllEmpty(t *testing.T) {
	sub := &mockSubmitter{}
	f := NewForm(ModeSignup, sub)

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertFields(t, f.Errors, FieldFirstName, FieldLastName, FieldEmail, FieldPassword, FieldAgree)
	if f.Success != "" {
		t.Errorf("expected no success message, got %q", f.Success)
	}
	if sub.calls != 0 {
		t.Errorf("expected submitter not to be called, got %d calls", sub.calls)
	}
}

func TestSubmit_SignupSuccess(t *testing.T) {
	sub := &mockSubmitter{}
	f := NewForm(ModeSignup, sub)
	f.State = validSignup()

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !f.Errors.Valid() {
		t.Errorf("expected no errors, got %v", f.Errors)
	}
	if f.Success != "Account created successfully!" {
		t.Errorf("unexpected success message %q", f.Success)
	}
	if f.State != (FormState{}) {
		t.Errorf("expected state reset to defaults, got %+v", f.State)
	}
	if sub.calls != 1 {
		t.Fatalf("expected 1 submit call, got %d", sub.calls)
	}
	want := Credentials{Mode: ModeSignup, FirstName: "John", LastName: "Doe", Email: "john@example.com", Password: "secret1"}
	if sub.lastCreds != want {
		t.Errorf("expected credentials %+v, got %+v", want, sub.lastCreds)
	}
	if sub.lastCreds.Operation() != "register" {
		t.Errorf("expected register operation, got %q", sub.lastCreds.Operation())
	}
}

func TestSubmit_LoginInvalid(t *testing.T) {
	f := NewForm(ModeLogin, &mockSubmitter{})
	f.State = FormState{Email: "bad-email", Password: "123"}

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertFields(t, f.Errors, FieldEmail, FieldPassword)
	if f.Errors.Get(FieldEmail) != "Invalid email format" {
		t.Errorf("unexpected email error %q", f.Errors.Get(FieldEmail))
	}
	if f.Errors.Get(FieldPassword) != "Password must be at least 6 characters" {
		t.Errorf("unexpected password error %q", f.Errors.Get(FieldPassword))
	}
}

func TestSubmit_LoginSuccessOmitsNames(t *testing.T) {
	sub := &mockSubmitter{}
	f := NewForm(ModeLogin, sub)
	f.State = FormState{FirstName: "leftover", Email: "john@example.com", Password: "secret1"}

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Success != "Logged in successfully!" {
		t.Errorf("unexpected success message %q", f.Success)
	}
	if sub.lastCreds.FirstName != "" || sub.lastCreds.Operation() != "login" {
		t.Errorf("expected login credentials without names, got %+v", sub.lastCreds)
	}
}

func TestSubmit_BackendFailure(t *testing.T) {
	sub := &mockSubmitter{
		submitFn: func(ctx context.Context, creds Credentials) error {
			return apperror.NewUnavailable("backend unavailable", errors.New("connection refused"))
		},
	}
	f := NewForm(ModeSignup, sub)
	f.State = validSignup()

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertFields(t, f.Errors, FieldGeneral)
	if f.Errors.Get(FieldGeneral) != "Something went wrong. Please try again." {
		t.Errorf("unexpected general error %q", f.Errors.Get(FieldGeneral))
	}
	if f.Success != "" {
		t.Errorf("expected success unset, got %q", f.Success)
	}
	if f.State != validSignup() {
		t.Errorf("expected values kept for retry, got %+v", f.State)
	}
	if f.Pending() {
		t.Error("expected pending flag cleared after the call")
	}
}

func TestSubmit_ClearsPreviousMessages(t *testing.T) {
	calls := 0
	sub := &mockSubmitter{
		submitFn: func(ctx context.Context, creds Credentials) error {
			calls++
			if calls == 1 {
				return errors.New("first attempt fails")
			}
			return nil
		},
	}
	f := NewForm(ModeSignup, sub)
	f.State = validSignup()

	_ = f.Submit(context.Background())
	if f.Errors.Get(FieldGeneral) == "" {
		t.Fatal("expected general error after the failed attempt")
	}

	_ = f.Submit(context.Background())
	if f.Errors.Get(FieldGeneral) != "" {
		t.Errorf("expected general error cleared on retry, got %v", f.Errors)
	}
	if f.Success != "Account created successfully!" {
		t.Errorf("expected success on retry, got %q", f.Success)
	}

	// A later invalid submit drops the old success message.
	_ = f.Submit(context.Background())
	if f.Success != "" {
		t.Errorf("expected success cleared, got %q", f.Success)
	}
}

func TestSubmit_RejectsWhilePending(t *testing.T) {
	sub := &mockSubmitter{}
	f := NewForm(ModeLogin, sub)
	f.State = FormState{Email: "john@example.com", Password: "secret1"}
	f.MarkPending()

	if err := f.Submit(context.Background()); !errors.Is(err, ErrSubmitPending) {
		t.Fatalf("expected ErrSubmitPending, got %v", err)
	}
	if sub.calls != 0 {
		t.Errorf("expected submitter not called, got %d", sub.calls)
	}
	if f.Success != "" {
		t.Errorf("expected no success, got %q", f.Success)
	}
}

func TestSubmit_PendingDuringBackendCall(t *testing.T) {
	var f *Form
	sub := &mockSubmitter{
		submitFn: func(ctx context.Context, creds Credentials) error {
			if !f.Pending() {
				t.Error("expected pending while the backend call runs")
			}
			return nil
		},
	}
	f = NewForm(ModeLogin, sub)
	f.State = FormState{Email: "john@example.com", Password: "secret1"}

	_ = f.Submit(context.Background())
	if f.Pending() {
		t.Error("expected pending cleared after the call")
	}
}

// --- Toggles ---

func TestToggleMode_ClearsMessagesKeepsValues(t *testing.T) {
	f := NewForm(ModeSignup, &mockSubmitter{})
	f.State = FormState{FirstName: "Jane", Email: "bad"}
	_ = f.Submit(context.Background())
	if f.Errors.Valid() {
		t.Fatal("expected errors before toggling")
	}
	before := f.State

	f.ToggleMode()

	if f.Mode != ModeLogin {
		t.Errorf("expected login mode, got %s", f.Mode)
	}
	if !f.Errors.Valid() {
		t.Errorf("expected errors cleared, got %v", f.Errors)
	}
	if f.Success != "" {
		t.Errorf("expected success cleared, got %q", f.Success)
	}
	if f.State != before {
		t.Errorf("expected values unchanged, got %+v", f.State)
	}

	f.ToggleMode()
	if f.Mode != ModeSignup {
		t.Errorf("expected signup after second toggle, got %s", f.Mode)
	}
}

func TestToggleMode_ClearsSuccess(t *testing.T) {
	f := NewForm(ModeLogin, &mockSubmitter{})
	f.State = FormState{Email: "john@example.com", Password: "secret1"}
	_ = f.Submit(context.Background())

	f.ToggleMode()
	if f.Success != "" {
		t.Errorf("expected success cleared, got %q", f.Success)
	}
}

func TestTogglePasswordVisibility_LeavesStateAlone(t *testing.T) {
	f := NewForm(ModeLogin, &mockSubmitter{})
	f.State = FormState{Email: "bad", Password: "123"}
	_ = f.Submit(context.Background())
	errsBefore := len(f.Errors)
	stateBefore := f.State

	f.TogglePasswordVisibility()
	if !f.PasswordVisible {
		t.Error("expected password visible")
	}
	if f.State != stateBefore || len(f.Errors) != errsBefore {
		t.Error("expected values and errors untouched")
	}

	f.TogglePasswordVisibility()
	if f.PasswordVisible {
		t.Error("expected password hidden again")
	}
}

func TestRestoreForm_RoundTripsView(t *testing.T) {
	f := RestoreForm(View{Mode: ModeLogin, PasswordVisible: true}, nil)
	if got := f.View(); got != (View{Mode: ModeLogin, PasswordVisible: true}) {
		t.Errorf("unexpected view %+v", got)
	}
	if !f.Errors.Valid() || f.Success != "" {
		t.Error("expected a restored form to start without messages")
	}
}

// --- Mode ---

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"login": ModeLogin, "SIGNUP": ModeSignup, " Login ": ModeLogin} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("register"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
