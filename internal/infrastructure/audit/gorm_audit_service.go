// Package audit records builder actions in a database, on a Kafka topic, or in the log.
package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
)

// Record is the stored form of an audit event
type Record struct {
	EventID    string    `gorm:"primaryKey;size:36"`
	EventType  string    `gorm:"size:64;index"`
	ActorID    string    `gorm:"size:64;index"`
	Entity     string    `gorm:"size:32"`
	EntityID   string    `gorm:"size:64"`
	KeyID      string    `gorm:"size:64;index"`
	RevisionID string    `gorm:"size:64"`
	Result     string    `gorm:"size:16"`
	TraceID    string    `gorm:"size:64"`
	Message    string    `gorm:"type:text"`
	Metadata   string    `gorm:"type:text"`
	Signature  string    `gorm:"size:64"`
	Timestamp  time.Time `gorm:"index"`
}

func (Record) TableName() string { return "builder_audit_events" }

func toRecord(e models.AuditEvent) Record {
	return Record{
		EventID:    e.EventID.String(),
		EventType:  string(e.EventType),
		ActorID:    e.ActorID,
		Entity:     e.Entity,
		EntityID:   e.EntityID,
		KeyID:      e.KeyID,
		RevisionID: e.RevisionID,
		Result:     e.Result,
		TraceID:    e.TraceID,
		Message:    e.Message,
		Metadata:   string(e.Metadata),
		Timestamp:  e.Timestamp,
	}
}

// GormAuditService stores audit events in a relational database. When a
// signing key is set every row carries an HMAC of the event.
type GormAuditService struct {
	db         *gorm.DB
	signingKey string
}

var _ service.AuditService = (*GormAuditService)(nil)

// NewGormAuditService creates the service and migrates its table.
func NewGormAuditService(db *gorm.DB, signingKey string) (*GormAuditService, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &GormAuditService{db: db, signingKey: signingKey}, nil
}

// LogEvent saves an AuditEvent to the database.
func (s *GormAuditService) LogEvent(ctx context.Context, event models.AuditEvent) error {
	rec := toRecord(event)
	if s.signingKey != "" {
		sig, err := SignAuditEvent(event, s.signingKey)
		if err != nil {
			return err
		}
		rec.Signature = sig
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

// Recent returns the latest events, newest first, optionally for one key.
func (s *GormAuditService) Recent(ctx context.Context, keyID string, limit int) ([]Record, error) {
	q := s.db.WithContext(ctx).Order("timestamp desc")
	if keyID != "" {
		q = q.Where("key_id = ?", keyID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Record
	return out, q.Find(&out).Error
}

// CountByType counts stored events of one type
func (s *GormAuditService) CountByType(ctx context.Context, eventType constants.AuditEventType) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Record{}).Where("event_type = ?", string(eventType)).Count(&n).Error
	return n, err
}
