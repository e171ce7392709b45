package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheReportsDisabledWithoutRedis(t *testing.T) {
	c := checkCache()

	assert.Equal(t, "disabled", c.Status)
	assert.Zero(t, c.ResponseTime)
}
