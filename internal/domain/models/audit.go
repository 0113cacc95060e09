package models

import (
	"encoding/json"
	"time"

	"github.com/artsapp/builder/pkg/constants"
	"github.com/google/uuid"
)

// AuditEvent records a builder action against the key API.
type AuditEvent struct {
	EventID    uuid.UUID                `json:"event_id"`
	EventType  constants.AuditEventType `json:"event_type"`
	ActorID    string                   `json:"actor_id"` // user id, or "anonymous"
	Entity     string                   `json:"entity"`
	EntityID   string                   `json:"entity_id,omitempty"`
	KeyID      string                   `json:"key_id,omitempty"`
	RevisionID string                   `json:"revision_id,omitempty"`
	Result     string                   `json:"result"` // "success" or "failure"
	TraceID    string                   `json:"trace_id,omitempty"`
	Message    string                   `json:"message,omitempty"`
	Metadata   json.RawMessage          `json:"metadata,omitempty"`
	Timestamp  time.Time                `json:"timestamp"`
}

const (
	AuditResultSuccess = "success"
	AuditResultFailure = "failure"
)

// NewAuditEvent creates a new audit event.
func NewAuditEvent(eventType constants.AuditEventType, entity, entityID string) *AuditEvent {
	return &AuditEvent{
		EventID:   uuid.New(),
		EventType: eventType,
		Entity:    entity,
		EntityID:  entityID,
		Result:    AuditResultSuccess,
		Timestamp: time.Now().UTC(),
	}
}

// WithActor sets the actor ID for the audit event.
func (a *AuditEvent) WithActor(actorID string) *AuditEvent {
	a.ActorID = actorID
	return a
}

// WithRevision sets the key and revision the event belongs to.
func (a *AuditEvent) WithRevision(keyID, revisionID string) *AuditEvent {
	a.KeyID = keyID
	a.RevisionID = revisionID
	return a
}

// WithFailure marks the event as failed.
func (a *AuditEvent) WithFailure(message string) *AuditEvent {
	a.Result = AuditResultFailure
	a.Message = message
	return a
}

// WithMessage sets the message.
func (a *AuditEvent) WithMessage(message string) *AuditEvent {
	a.Message = message
	return a
}

// WithTrace sets the trace id.
func (a *AuditEvent) WithTrace(traceID string) *AuditEvent {
	a.TraceID = traceID
	return a
}

// WithMetadata sets JSON metadata for the audit event.
func (a *AuditEvent) WithMetadata(data interface{}) *AuditEvent {
	jsonData, err := json.Marshal(data)
	if err == nil {
		a.Metadata = jsonData
	}
	return a
}
