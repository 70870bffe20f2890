package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandom(t *testing.T) {
	// Not a statistical test, just checks every pick is a known quote.
	all := All()
	seen := make(map[string]bool)
	for range 200 {
		q := Random()
		assert.Contains(t, all, q)
		seen[q.Author] = true
	}

	assert.Greater(t, len(seen), 1)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Text = "changed"

	assert.NotEqual(t, "changed", All()[0].Text)
	assert.Len(t, All(), 8)
}
