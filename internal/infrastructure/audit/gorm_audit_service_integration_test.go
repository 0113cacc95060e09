//go:build integration

package audit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/infrastructure/persistence/database"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/logger"
)

func TestGormAuditService_Postgres(t *testing.T) {
	if os.Getenv("SKIP_DOCKER_TESTS") == "true" {
		t.Skip("Skipping Docker-dependent tests")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("builder"),
		postgres.WithUsername("builder"),
		postgres.WithPassword("builder"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	}()

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(ctx, &config.AuditConfig{Driver: database.DriverPostgres, DSN: dsn}, logger.NewNoopLogger())
	require.NoError(t, err)
	defer database.Close(db)

	svc, err := NewGormAuditService(db, "integration-secret")
	require.NoError(t, err)

	ev := revisionEvent("k1")
	require.NoError(t, svc.LogEvent(ctx, ev))

	records, err := svc.Recent(ctx, "k1", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, VerifyAuditEvent(ev, "integration-secret", records[0].Signature))

	n, err := svc.CountByType(ctx, constants.AuditEventRevisionCreated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
