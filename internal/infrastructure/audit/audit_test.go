package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service/mocks"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func revisionEvent(keyID string) models.AuditEvent {
	return *models.NewAuditEvent(constants.AuditEventRevisionCreated, "revision", "r1").
		WithActor("u1").
		WithRevision(keyID, "r1").
		WithMetadata(map[string]int{"statements": 3})
}

func TestGormAuditService(t *testing.T) {
	svc, err := NewGormAuditService(newTestDB(t), "audit-secret")
	require.NoError(t, err)
	ctx := context.Background()

	ev := revisionEvent("k1")
	require.NoError(t, svc.LogEvent(ctx, ev))
	require.NoError(t, svc.LogEvent(ctx, revisionEvent("k2")))

	records, err := svc.Recent(ctx, "k1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ev.EventID.String(), records[0].EventID)
	assert.Equal(t, `{"statements":3}`, records[0].Metadata)
	assert.True(t, VerifyAuditEvent(ev, "audit-secret", records[0].Signature))

	n, err := svc.CountByType(ctx, constants.AuditEventRevisionCreated)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSignAuditEvent_DetectsTampering(t *testing.T) {
	ev := revisionEvent("k1")
	sig, err := SignAuditEvent(ev, "secret")
	require.NoError(t, err)
	assert.True(t, VerifyAuditEvent(ev, "secret", sig))

	ev.ActorID = "someone-else"
	assert.False(t, VerifyAuditEvent(ev, "secret", sig))
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaProducer(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaProducer(w, logger.NewNoopLogger())
	ctx := context.Background()

	require.NoError(t, p.LogEvent(ctx, revisionEvent("k1")))
	require.Len(t, w.messages, 1)
	assert.Equal(t, "k1", string(w.messages[0].Key))
	assert.Contains(t, string(w.messages[0].Value), `"event_type":"revision.created"`)
	assert.Equal(t, "event_type", w.messages[0].Headers[0].Key)

	w.err = fmt.Errorf("broker down")
	assert.Error(t, p.Publish(ctx, "k1", revisionEvent("k1")))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestMultiAuditService_TriesEverySink(t *testing.T) {
	failing := new(mocks.MockAuditService)
	failing.On("LogEvent", mock.Anything, mock.Anything).Return(fmt.Errorf("db down"))
	ok := new(mocks.MockAuditService)
	ok.On("LogEvent", mock.Anything, mock.Anything).Return(nil)

	err := MultiAuditService{failing, ok}.LogEvent(context.Background(), revisionEvent("k1"))
	assert.EqualError(t, err, "db down")
	ok.AssertNumberOfCalls(t, "LogEvent", 1)
}

func TestNewSinks(t *testing.T) {
	ctx := context.Background()

	sinks, err := NewSinks(ctx, &config.Config{Audit: config.AuditConfig{Backend: "log"}}, "", logger.NewNoopLogger())
	require.NoError(t, err)
	assert.IsType(t, &LogAuditService{}, sinks.Audit)
	assert.Nil(t, sinks.Publisher)

	sinks, err = NewSinks(ctx, &config.Config{Audit: config.AuditConfig{
		Backend: "database",
		Driver:  "sqlite",
		DSN:     "file:sinks?mode=memory&cache=shared",
	}}, "k", logger.NewNoopLogger())
	require.NoError(t, err)
	assert.IsType(t, &GormAuditService{}, sinks.Audit)
	require.NoError(t, sinks.Audit.LogEvent(ctx, revisionEvent("k1")))
	require.NoError(t, sinks.Close())
}

func TestSinksClose_ReportsPublisherError(t *testing.T) {
	publisher := new(mocks.MockEventPublisher)
	publisher.On("Close").Return(fmt.Errorf("broker gone"))

	sinks := &Sinks{Publisher: publisher}
	assert.EqualError(t, sinks.Close(), "broker gone")
	publisher.AssertExpectations(t)
}
