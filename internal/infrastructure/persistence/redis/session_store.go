package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore keeps session state in Redis under builder:session:<id>.
// Every Save refreshes the TTL.
type SessionStore struct {
	conn *RedisConnection
	ttl  time.Duration
	log  logger.Logger
}

// NewSessionStore creates a Redis session store.
func NewSessionStore(conn *RedisConnection, ttl time.Duration, log logger.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = constants.SessionDefaultTTL
	}
	return &SessionStore{conn: conn, ttl: ttl, log: log.WithComponent("session_store")}
}

func sessionKey(id string) string {
	return constants.SessionKeyPrefix + id
}

// Load returns the stored state of a session
func (s *SessionStore) Load(ctx context.Context, sessionID string) (repository.SessionState, bool, error) {
	val, err := s.conn.Client().Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return repository.SessionState{}, false, nil
	}
	if err != nil {
		s.log.Error(ctx, "Failed to load session", err, logger.String("session_id", sessionID))
		return repository.SessionState{}, false, errors.ErrInternal("session store unavailable").WithCause(err)
	}

	var state repository.SessionState
	if err := json.Unmarshal(val, &state); err != nil {
		s.log.Warn(ctx, "Discarding unreadable session", logger.String("session_id", sessionID), logger.Err(err))
		return repository.SessionState{}, false, nil
	}
	return state, true, nil
}

// Save stores the state and refreshes the TTL
func (s *SessionStore) Save(ctx context.Context, sessionID string, state repository.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.conn.Client().Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		s.log.Error(ctx, "Failed to save session", err, logger.String("session_id", sessionID))
		return errors.ErrInternal("session store unavailable").WithCause(err)
	}
	return nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.conn.Client().Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return errors.ErrInternal("session store unavailable").WithCause(err)
	}
	return nil
}
