package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   ExpiryClass
	}{
		{"expired yesterday", now.Add(-day), ExpiryExpired},
		{"five days", now.Add(5 * day), ExpiryCritical},
		{"exactly seven days", now.Add(7 * day), ExpiryCritical},
		{"ten days", now.Add(10 * day), ExpiryWarning},
		{"exactly fourteen days", now.Add(14 * day), ExpiryWarning},
		{"twenty days", now.Add(20 * day), ExpirySoon},
		{"exactly thirty days", now.Add(30 * day), ExpirySoon},
		{"thirty point one days", now.Add(30*day + 150*time.Minute), ExpiryOK},
		{"forty five days", now.Add(45 * day), ExpiryOK},
		{"later today", now.Add(time.Hour), ExpiryCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.expiry, now))
			assert.Equal(t, tt.want, Classify(tt.expiry, now), "repeat call must agree")
		})
	}
}

func TestDaysLeftUsesCeiling(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(31), DaysLeft(now.Add(30*day+time.Hour), now))
	assert.Equal(t, int64(7), DaysLeft(now.Add(7*day), now))
	assert.Equal(t, int64(1), DaysLeft(now.Add(time.Minute), now))
	assert.Equal(t, int64(-1), DaysLeft(now.Add(-day), now))
}

func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	status := ClassifyExpiry(now.Add(12*day), now)
	assert.Equal(t, ExpiryWarning, status.Class)
	assert.Equal(t, int64(12), status.DaysLeft)
}
