package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Without Init the client is nil and every call must degrade to a no-op.
func TestCacheDegradesWithoutRedis(t *testing.T) {
	ctx := context.Background()
	key := fmt.Sprintf(FlightBoardKeyFmt, "2026-03-15")

	var out []string
	assert.False(t, GetJSON(ctx, key, &out))
	assert.Nil(t, out)

	SetJSON(ctx, key, []string{"CX880"}, time.Minute)
	Invalidate(ctx, key, DashboardStatsKey)

	assert.Nil(t, GetClient())
	assert.False(t, GetJSON(ctx, key, &out))
}
