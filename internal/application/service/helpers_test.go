package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/internal/domain/service/mocks"
	"github.com/artsapp/builder/internal/infrastructure/keyapi"
	"github.com/artsapp/builder/internal/testutil/fakeapi"
	"github.com/artsapp/builder/pkg/constants"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordUpstreamCall(endpoint, method string, status int, duration time.Duration) {
	m.Called(endpoint, method, status, duration)
}

func (m *MockMetrics) RecordPremiseSave(changed bool, success bool) {
	m.Called(changed, success)
}

func (m *MockMetrics) RecordRevisionBuild(success bool, errorCode string, duration time.Duration) {
	m.Called(success, errorCode, duration)
}

func (m *MockMetrics) RecordBestEffortFailure(operation string) {
	m.Called(operation)
}

// testEnv wires the services' repositories to a fake key API
type testEnv struct {
	srv     *fakeapi.Server
	repos   repository.Repositories
	audit   *mocks.MockAuditService
	metrics *MockMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	client := keyapi.NewClient(&config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})

	audit := new(mocks.MockAuditService)
	audit.On("LogEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	metrics := new(MockMetrics)
	metrics.On("RecordPremiseSave", mock.Anything, mock.Anything).Maybe()
	metrics.On("RecordRevisionBuild", mock.Anything, mock.Anything, mock.Anything).Maybe()
	metrics.On("RecordBestEffortFailure", mock.Anything).Maybe()

	return &testEnv{srv: srv, repos: client.Repositories(), audit: audit, metrics: metrics}
}

// auditedTypes lists the event types recorded so far
func (e *testEnv) auditedTypes() []constants.AuditEventType {
	var out []constants.AuditEventType
	for _, c := range e.audit.Calls {
		if c.Method == "LogEvent" {
			out = append(out, c.Arguments.Get(1).(models.AuditEvent).EventType)
		}
	}
	return out
}

func signedIn(user *models.User) context.Context {
	return WithAppState(context.Background(), models.NewAppState("no").WithUser(user))
}

func categorical(id string, typ constants.CharacterType, states ...string) models.Character {
	c := models.Character{ID: id, Title: models.Translations{"no": id}, Type: typ}
	c.States.List = []models.State{}
	for _, s := range states {
		c.States.List = append(c.States.List, models.State{ID: s, Title: models.Translations{"no": s}})
	}
	return c
}

// seedKey stores a key with one revision holding birds, corvids and ravens,
// the characters wing, colour, habitat and length, and no statements.
func (e *testEnv) seedKey() (keyID, revisionID string) {
	keyID = e.srv.PutKey(models.Key{
		Title:     models.Translations{"no": "Fugler"},
		Languages: []string{"no"},
		Status:    constants.KeyStatusPrivate,
	})
	revisionID = e.srv.PutRevision(models.Revision{
		KeyID: keyID,
		Content: models.RevisionContent{
			Taxa: []models.Taxon{
				{ID: "birds", ScientificName: "Aves", Children: []models.Taxon{
					{ID: "corvids", ScientificName: "Corvidae", Children: []models.Taxon{
						{ID: "raven", ScientificName: "Corvus corax"},
					}},
				}},
			},
			Characters: []models.Character{
				categorical("wing", constants.CharacterTypeExclusive, "w1", "w2"),
				categorical("colour", constants.CharacterTypeExclusive, "red", "blue", "green"),
				categorical("habitat", constants.CharacterTypeMultistate, "forest", "lake"),
				{
					ID:     "length",
					Title:  models.Translations{"no": "length"},
					Type:   constants.CharacterTypeNumerical,
					States: models.CharacterStates{Range: &models.NumericRange{ID: "length-range", Min: 0, Max: 100}},
				},
			},
			Statements: []models.Statement{},
		},
	})
	return keyID, revisionID
}
