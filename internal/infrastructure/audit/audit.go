package audit

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/internal/infrastructure/persistence/database"
	"github.com/artsapp/builder/pkg/logger"
)

// LogAuditService writes audit events to the structured log only.
type LogAuditService struct {
	log logger.Logger
}

// NewLogAuditService creates a log-only audit sink
func NewLogAuditService(log logger.Logger) *LogAuditService {
	return &LogAuditService{log: log.WithComponent("audit")}
}

func (s *LogAuditService) LogEvent(ctx context.Context, e models.AuditEvent) error {
	s.log.Info(ctx, "audit event",
		logger.String("event_id", e.EventID.String()),
		logger.String("event_type", string(e.EventType)),
		logger.String("actor_id", e.ActorID),
		logger.String("entity", e.Entity),
		logger.String("entity_id", e.EntityID),
		logger.String("key_id", e.KeyID),
		logger.String("revision_id", e.RevisionID),
		logger.String("result", e.Result),
	)
	return nil
}

// MultiAuditService fans an event out to several sinks. Every sink is tried;
// the first error is returned.
type MultiAuditService []service.AuditService

func (m MultiAuditService) LogEvent(ctx context.Context, e models.AuditEvent) error {
	var first error
	for _, s := range m {
		if err := s.LogEvent(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Sinks holds the audit service built from configuration and the resources
// that must be released on shutdown.
type Sinks struct {
	Audit     service.AuditService
	Publisher service.EventPublisher
	DB        *gorm.DB
}

// Close releases the database and the Kafka writer.
func (s *Sinks) Close() error {
	var first error
	if s.Publisher != nil {
		first = s.Publisher.Close()
	}
	if s.DB != nil {
		if err := database.Close(s.DB); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewSinks builds the audit service named by audit.backend. The Kafka producer,
// when configured, doubles as the builder event publisher.
func NewSinks(ctx context.Context, cfg *config.Config, signingKey string, log logger.Logger) (*Sinks, error) {
	sinks := &Sinks{}
	var services MultiAuditService

	if cfg.Audit.Backend == "database" || cfg.Audit.Backend == "both" {
		db, err := database.Open(ctx, &cfg.Audit, log)
		if err != nil {
			return nil, err
		}
		gormAudit, err := NewGormAuditService(db, signingKey)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate audit table: %w", err)
		}
		sinks.DB = db
		services = append(services, gormAudit)
	}
	if cfg.Audit.Backend == "kafka" || cfg.Audit.Backend == "both" {
		producer := NewKafkaProducer(cfg.Kafka, log)
		sinks.Publisher = producer
		services = append(services, producer)
	}

	switch len(services) {
	case 0:
		sinks.Audit = NewLogAuditService(log)
	case 1:
		sinks.Audit = services[0]
	default:
		sinks.Audit = services
	}
	log.Info(ctx, "Audit sinks configured", logger.String("backend", cfg.Audit.Backend))
	return sinks, nil
}
