package recordid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_MonotonicWithinOneMillisecond(t *testing.T) {
	fixed := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	g := New()
	g.now = func() time.Time { return fixed }

	prev := ""
	for i := 0; i < 100; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}

	created, err := Time(prev)
	require.NoError(t, err)
	assert.True(t, created.Equal(fixed))
}

func TestTime_RejectsMalformedID(t *testing.T) {
	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
