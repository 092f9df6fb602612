package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/arbitrage-crawler/internal/domain"
)

func TestPlanUpsert(t *testing.T) {
	tests := []struct {
		name    string
		found   bool
		delFlag int
		want    upsertAction
	}{
		{"no existing row inserts", false, 0, actionInsert},
		{"active row updates in place", true, domain.DelFlagActive, actionUpdate},
		{"soft-deleted row is never touched", true, domain.DelFlagSoftDeleted, actionSkip},
		{"unknown flag treated as active", true, 1, actionUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planUpsert(tt.found, tt.delFlag))
		})
	}
}
