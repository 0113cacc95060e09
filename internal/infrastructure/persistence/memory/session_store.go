// Package memory provides an in-process session store for single-instance deployments and tests.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/constants"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore keeps sessions in a go-cache with a sliding TTL.
type SessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionStore creates an in-memory session store
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = constants.SessionDefaultTTL
	}
	return &SessionStore{cache: cache.New(ttl, 10*time.Minute), ttl: ttl}
}

func (s *SessionStore) Load(_ context.Context, sessionID string) (repository.SessionState, bool, error) {
	v, ok := s.cache.Get(constants.SessionKeyPrefix + sessionID)
	if !ok {
		return repository.SessionState{}, false, nil
	}
	state, ok := v.(repository.SessionState)
	return state, ok, nil
}

func (s *SessionStore) Save(_ context.Context, sessionID string, state repository.SessionState) error {
	if state.User != nil {
		u := *state.User
		state.User = &u
	}
	s.cache.Set(constants.SessionKeyPrefix+sessionID, state, s.ttl)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.cache.Delete(constants.SessionKeyPrefix + sessionID)
	return nil
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
