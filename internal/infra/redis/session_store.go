package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"brainy-quiz-service/internal/app"
)

// SessionStore decorates an in-process session store with Redis liveness
// markers. Sessions themselves stay in memory: an in-progress attempt is
// abandoned, not resumed, after a restart. The markers let operators see
// live attempts across instances.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	inner  app.SessionStore
}

func NewSessionStore(client *redis.Client, inner app.SessionStore, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		inner:  inner,
	}
}

func (s *SessionStore) Put(session *app.GameSession) {
	s.inner.Put(session)
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), "1", s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.GameSession, bool) {
	return s.inner.Get(sessionID)
}

func (s *SessionStore) Delete(sessionID string) {
	s.inner.Delete(sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) Reap(cutoff time.Time) []string {
	removed := s.inner.Reap(cutoff)
	for _, id := range removed {
		_ = s.client.Del(context.Background(), s.key(id)).Err()
	}
	return removed
}

func (s *SessionStore) key(sessionID string) string {
	return "game:session:" + sessionID
}
