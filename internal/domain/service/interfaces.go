package service

import (
	"context"

	"github.com/artsapp/builder/internal/domain/models"
)

// AuditService records builder actions.
// AuditService 记录构建器操作。
//
//go:generate mockery --name AuditService --output mocks --outpkg mocks
type AuditService interface {
	// LogEvent persists or publishes a single audit event.
	// LogEvent 持久化或发布单个审计事件。
	LogEvent(ctx context.Context, event models.AuditEvent) error
}

// EventPublisher publishes builder events (new revisions, premise changes) to downstream consumers.
// EventPublisher 向下游消费者发布构建器事件。
//
//go:generate mockery --name EventPublisher --output mocks --outpkg mocks
type EventPublisher interface {
	// Publish sends the event keyed by the key id so that events of one key stay ordered.
	// Publish 以密钥 ID 为键发送事件，保证同一密钥的事件有序。
	Publish(ctx context.Context, key string, event models.AuditEvent) error

	// Close flushes and releases the publisher.
	// Close 刷新并释放发布器。
	Close() error
}

// BestEffortResult reports the outcome of a call whose failure does not fail the
// surrounding operation, such as the premise cleanup after a state change.
type BestEffortResult struct {
	Operation string `json:"operation"`
	Attempted bool   `json:"attempted"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// Skipped creates a result for a call that was not needed
func Skipped(operation string) BestEffortResult {
	return BestEffortResult{Operation: operation}
}

// Outcome creates a result from the error of an attempted call
func Outcome(operation string, err error) BestEffortResult {
	r := BestEffortResult{Operation: operation, Attempted: true, Succeeded: err == nil}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Failed reports whether the call was attempted and failed
func (r BestEffortResult) Failed() bool {
	return r.Attempted && !r.Succeeded
}

// IsPermitted is the permission gate: every permission must be held and, when
// workgroupID is set, the user must belong to that workgroup.
func IsPermitted(user *models.User, permissions []string, workgroupID string) bool {
	return user.IsPermitted(permissions, workgroupID)
}
