package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorUnique(t *testing.T) {
	g, err := NewGenerator(3)
	require.NoError(t, err)

	seen := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		id := g.Next()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestInvalidNode(t *testing.T) {
	_, err := NewGenerator(5000)
	assert.Error(t, err)

	g := OrDefault(5000)
	assert.NotEmpty(t, g.Next())
}

func TestNilGeneratorFallsBackToKSUID(t *testing.T) {
	var g *Generator
	assert.Len(t, g.Next(), 27)
}
