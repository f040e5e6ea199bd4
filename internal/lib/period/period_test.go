package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	now := time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC)
	start, end := Current(now)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestCurrent_DecemberRollsOver(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)
	start, end := Current(now)

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestContains(t *testing.T) {
	start, end := Current(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	assert.True(t, Contains(start, end, start))
	assert.True(t, Contains(start, end, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, Contains(start, end, end))
	assert.False(t, Contains(start, end, start.Add(-time.Second)))
}
