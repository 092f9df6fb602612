package snkrdunk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrNoSessionCookie is returned when a login completed but the browser
// ended up with no cookies to build a session from.
var ErrNoSessionCookie = errors.New("snkrdunk: login produced no session cookies")

// Session is the credential for authenticated snkrdunk API calls: the full
// cookie set of a logged-in browser, flattened into one header value.
type Session struct {
	Cookie string
}

// SessionManager logs into snkrdunk through a headless browser and turns the
// resulting cookie jar into a Session. Each login runs in an isolated browser
// instance that is torn down on every exit path.
type SessionManager struct {
	baseURL     string
	email       string
	password    string
	maxAttempts int
	timeout     time.Duration
	logger      *zap.Logger

	// loginFn performs one login attempt. Overridable in tests.
	loginFn func(ctx context.Context) (string, error)
}

func NewSessionManager(baseURL, email, password string, maxAttempts int, timeout time.Duration, logger *zap.Logger) *SessionManager {
	m := &SessionManager{
		baseURL:     strings.TrimRight(baseURL, "/"),
		email:       email,
		password:    password,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		logger:      logger,
	}
	m.loginFn = m.loginOnce
	return m
}

// Login attempts a fresh login, retrying up to the configured ceiling.
// Exhausting the ceiling is terminal for the caller's run.
func (m *SessionManager) Login(ctx context.Context) (*Session, error) {
	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		cookie, err := m.loginFn(ctx)
		if err == nil {
			m.logger.Info("snkrdunk login succeeded", zap.Int("attempt", attempt))
			return &Session{Cookie: cookie}, nil
		}
		lastErr = err
		m.logger.Warn("snkrdunk login attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", m.maxAttempts),
			zap.Error(err))
	}
	return nil, fmt.Errorf("snkrdunk login failed after %d attempts: %w", m.maxAttempts, lastErr)
}

func (m *SessionManager) loginOnce(ctx context.Context) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, m.timeout)
	defer timeoutCancel()

	var cookieHeader string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(m.baseURL+"/en/login"),
		chromedp.WaitVisible(`input[name="email"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="email"]`, m.email, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="password"]`, m.password, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		// The account menu only renders once the session is established.
		chromedp.WaitVisible(`a[href*="/mypage"]`, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			cookies, err := storage.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			if len(cookies) == 0 {
				return ErrNoSessionCookie
			}
			parts := make([]string, 0, len(cookies))
			for _, c := range cookies {
				parts = append(parts, c.Name+"="+c.Value)
			}
			cookieHeader = strings.Join(parts, "; ")
			return nil
		}),
	)
	if err != nil {
		return "", err
	}
	return cookieHeader, nil
}
