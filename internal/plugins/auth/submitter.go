package auth

import (
	"context"
	"log/slog"

	"github.com/keyxmakerx/authpage/internal/apperror"
)

// Submitter is the seam where a real login/registration backend attaches.
// A nil error means success. A non-nil error is the failure reason; backends
// should return *apperror.AppError so the reason can be logged and classified.
type Submitter interface {
	Submit(ctx context.Context, creds Credentials) error
}

// MockSubmitter records the attempted operation in the log and always
// succeeds. It makes no network call.
type MockSubmitter struct {
	logger *slog.Logger
}

// NewMockSubmitter creates a mock backend that logs to logger, or to the
// default slog logger if logger is nil.
func NewMockSubmitter(logger *slog.Logger) *MockSubmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockSubmitter{logger: logger}
}

// Submit logs the attempt. The password is never logged.
func (m *MockSubmitter) Submit(ctx context.Context, creds Credentials) error {
	if err := ctx.Err(); err != nil {
		return apperror.NewUnavailable("submission cancelled", err)
	}

	attrs := []slog.Attr{
		slog.String("operation", creds.Operation()),
		slog.String("email", creds.Email),
	}
	if creds.Mode == ModeSignup {
		attrs = append(attrs,
			slog.String("first_name", creds.FirstName),
			slog.String("last_name", creds.LastName),
		)
	}

	m.logger.LogAttrs(ctx, slog.LevelInfo, "mock auth submission", attrs...)
	return nil
}
