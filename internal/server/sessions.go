package server

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aguli-tv/aguli-admin/internal/explore"
	"github.com/aguli-tv/aguli-admin/internal/metrics"
	"github.com/aguli-tv/aguli-admin/logging"
)

// ErrSessionNotFound is returned for an unknown or evicted compose session.
var ErrSessionNotFound = errors.New("compose session not found")

// sessionStore keeps the open compose forms. Closing a session, whether by
// request or by eviction, discards its staged images.
type sessionStore struct {
	cache   *lru.Cache[string, *explore.Session]
	logger  *logging.Logger
	metrics *metrics.Metrics
}

func newSessionStore(size int, logger *logging.Logger, m *metrics.Metrics) (*sessionStore, error) {
	store := &sessionStore{logger: logger, metrics: m}
	cache, err := lru.NewWithEvict(size, store.closed)
	if err != nil {
		return nil, err
	}
	store.cache = cache
	return store, nil
}

func (s *sessionStore) closed(id string, sess *explore.Session) {
	sess.Discard()
	s.metrics.SessionClosed()
	s.logger.Debug("compose", "compose session closed", map[string]any{"session": id})
}

func (s *sessionStore) open() *explore.Session {
	sess := explore.NewSession(s.logger)
	s.metrics.SessionOpened()
	s.cache.Add(sess.ID(), sess)
	return sess
}

func (s *sessionStore) get(id string) (*explore.Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *sessionStore) close(id string) bool {
	return s.cache.Remove(id)
}

func (s *sessionStore) len() int {
	return s.cache.Len()
}

func (s *sessionStore) purge() {
	s.cache.Purge()
}
