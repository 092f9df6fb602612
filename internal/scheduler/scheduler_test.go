package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/domain"
)

type noopBulk struct{}

func (noopBulk) CrawlAll(ctx context.Context) (*domain.BulkResult, error) {
	return &domain.BulkResult{}, nil
}

func TestNewValidSchedule(t *testing.T) {
	s, err := New("0 * * * *", "Asia/Ho_Chi_Minh", noopBulk{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestNewRejectsBadTimezone(t *testing.T) {
	_, err := New("0 * * * *", "Mars/Olympus_Mons", noopBulk{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("every hour or so", "Asia/Ho_Chi_Minh", noopBulk{}, zap.NewNop())
	require.Error(t, err)
}
