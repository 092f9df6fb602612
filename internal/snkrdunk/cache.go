package snkrdunk

import (
	"context"

	"go.uber.org/zap"
)

// SessionCache persists the session cookie across process restarts.
type SessionCache interface {
	CachedSession(ctx context.Context) (string, error)
	CacheSession(ctx context.Context, cookie string) error
	DropSession(ctx context.Context) error
}

// LoginClient performs a fresh browser login.
type LoginClient interface {
	Login(ctx context.Context) (*Session, error)
}

// CachedSessions hands out the cached session when one exists and only logs
// in when the cache is empty. It never proactively refreshes: an expired
// session surfaces as an unauthorized fetch in the caller, which then calls
// Invalidate and asks again.
type CachedSessions struct {
	cache   SessionCache
	manager LoginClient
	logger  *zap.Logger
}

func NewCachedSessions(cache SessionCache, manager LoginClient, logger *zap.Logger) *CachedSessions {
	return &CachedSessions{cache: cache, manager: manager, logger: logger}
}

// Ensure returns a usable session, logging in if none is cached.
func (s *CachedSessions) Ensure(ctx context.Context) (*Session, error) {
	cookie, err := s.cache.CachedSession(ctx)
	if err != nil {
		s.logger.Warn("failed to read cached snkrdunk session", zap.Error(err))
	} else if cookie != "" {
		return &Session{Cookie: cookie}, nil
	}

	sess, err := s.manager.Login(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.CacheSession(ctx, sess.Cookie); err != nil {
		s.logger.Warn("failed to cache snkrdunk session", zap.Error(err))
	}
	return sess, nil
}

// Invalidate drops the cached session after an observed auth failure.
func (s *CachedSessions) Invalidate(ctx context.Context) error {
	return s.cache.DropSession(ctx)
}
