package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	id := New()
	assert.NotEmpty(t, id, "Identifier should not be empty")
	assert.Len(t, id, 36)
}

func TestNew_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := New()
		assert.False(t, seen[id], "Identifier %s was generated twice", id)
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(New()))
	assert.True(t, Valid("65f1c2a9e4b0a1b2c3d4e5f6"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("   "))
	assert.False(t, Valid("players/abc"))
}
