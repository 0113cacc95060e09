package service

import (
	"context"

	"github.com/artsapp/builder/internal/domain/models"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/logger"
)

// auditor stamps audit events with the session user and trace, then hands them
// to the audit service. A failing sink never fails the action being audited.
type auditor struct {
	service domainservice.AuditService
	logger  logger.Logger
}

func newAuditor(svc domainservice.AuditService, log logger.Logger) auditor {
	return auditor{service: svc, logger: log}
}

func (a auditor) record(ctx context.Context, event *models.AuditEvent, err error) {
	if a.service == nil {
		return
	}
	event.WithActor(actorID(ctx)).WithTrace(traceID(ctx))
	if err != nil {
		event.WithFailure(err.Error())
	}
	if logErr := a.service.LogEvent(ctx, *event); logErr != nil {
		a.logger.Warn(ctx, "Failed to record audit event",
			logger.String("event_type", string(event.EventType)),
			logger.Err(logErr),
		)
	}
}
