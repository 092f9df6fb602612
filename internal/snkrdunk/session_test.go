package snkrdunk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(loginFn func(ctx context.Context) (string, error)) *SessionManager {
	m := NewSessionManager("https://snkrdunk.example", "user@example.com", "secret", 3, time.Minute, zap.NewNop())
	m.loginFn = loginFn
	return m
}

func TestLoginRetriesUpToCeiling(t *testing.T) {
	attempts := 0
	m := newTestManager(func(ctx context.Context) (string, error) {
		attempts++
		return "", errors.New("bad credentials")
	})

	sess, err := m.Login(context.Background())

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, 3, attempts, "should stop at the retry ceiling")
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestLoginSucceedsOnRetry(t *testing.T) {
	attempts := 0
	m := newTestManager(func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("transient form error")
		}
		return "sess=abc123", nil
	})

	sess, err := m.Login(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sess=abc123", sess.Cookie)
	assert.Equal(t, 2, attempts)
}

type fakeCache struct {
	cookie  string
	readErr error
	dropped bool
}

func (f *fakeCache) CachedSession(ctx context.Context) (string, error) { return f.cookie, f.readErr }
func (f *fakeCache) CacheSession(ctx context.Context, cookie string) error {
	f.cookie = cookie
	return nil
}
func (f *fakeCache) DropSession(ctx context.Context) error {
	f.cookie = ""
	f.dropped = true
	return nil
}

type fakeLogin struct {
	calls int
	sess  *Session
	err   error
}

func (f *fakeLogin) Login(ctx context.Context) (*Session, error) {
	f.calls++
	return f.sess, f.err
}

func TestEnsureUsesCachedSession(t *testing.T) {
	cache := &fakeCache{cookie: "sess=cached"}
	login := &fakeLogin{sess: &Session{Cookie: "sess=fresh"}}
	s := NewCachedSessions(cache, login, zap.NewNop())

	sess, err := s.Ensure(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sess=cached", sess.Cookie)
	assert.Zero(t, login.calls, "cached session should not trigger a login")
}

func TestEnsureLogsInAndCachesWhenEmpty(t *testing.T) {
	cache := &fakeCache{}
	login := &fakeLogin{sess: &Session{Cookie: "sess=fresh"}}
	s := NewCachedSessions(cache, login, zap.NewNop())

	sess, err := s.Ensure(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sess=fresh", sess.Cookie)
	assert.Equal(t, 1, login.calls)
	assert.Equal(t, "sess=fresh", cache.cookie)
}

func TestEnsureLogsInWhenCacheReadFails(t *testing.T) {
	cache := &fakeCache{readErr: errors.New("redis down")}
	login := &fakeLogin{sess: &Session{Cookie: "sess=fresh"}}
	s := NewCachedSessions(cache, login, zap.NewNop())

	sess, err := s.Ensure(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sess=fresh", sess.Cookie)
}

func TestInvalidateDropsCache(t *testing.T) {
	cache := &fakeCache{cookie: "sess=stale"}
	s := NewCachedSessions(cache, &fakeLogin{}, zap.NewNop())

	require.NoError(t, s.Invalidate(context.Background()))
	assert.True(t, cache.dropped)
	assert.Empty(t, cache.cookie)
}
