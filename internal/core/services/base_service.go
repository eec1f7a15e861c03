package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledgerify/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
}

// ServiceOption configures the shared behaviour of a service.
type ServiceOption func(*BaseService)

// WithClock overrides the time source used for audit timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(b *BaseService) {
		if clock != nil {
			b.clock = clock
		}
	}
}

func newBaseService(opts ...ServiceOption) BaseService {
	b := BaseService{clock: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
