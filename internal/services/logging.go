package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

// ===== OPERATION LOGGING =====

// LogOperation logs the outcome of one operation. Client-caused failures log at warn.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID, resourceID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level, status = slog.LevelWarn, "validation_error"
		case IsUnauthorized(err), IsForbidden(err):
			level, status = slog.LevelWarn, "unauthorized"
		case IsNotFound(err):
			level, status = slog.LevelInfo, "not_found"
		case IsConflict(err):
			level, status = slog.LevelWarn, "conflict"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("resource_id", resourceID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if ve, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(ve)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// ===== SECURITY LOGGING =====

type SecurityEventType string

const (
	SecurityEventFailedLogin       SecurityEventType = "failed_login"
	SecurityEventInactiveLogin     SecurityEventType = "inactive_login"
	SecurityEventCrossAccessDenied SecurityEventType = "cross_access_denied"
)

func (l *ServiceLogger) LogSecurityEvent(ctx context.Context, eventType SecurityEventType, description string, args ...any) {
	attrs := append([]any{"security_event", string(eventType)}, args...)
	l.logger.WarnContext(ctx, fmt.Sprintf("Security: %s", description), attrs...)
}

// ===== HELPERS =====

// OperationLogger times one operation and logs its result once
type OperationLogger struct {
	logger    *ServiceLogger
	operation string
	userID    string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, userID string) *OperationLogger {
	return &OperationLogger{
		logger:    l,
		operation: operation,
		userID:    userID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (ol *OperationLogger) LogResult(resourceID string, err error) {
	ol.logger.LogOperation(ol.ctx, ol.operation, ol.userID, resourceID, time.Since(ol.startTime), err)
}
