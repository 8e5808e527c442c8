package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectionName_SanitizesUnsafeCharacters(t *testing.T) {
	name := projectionName("corpus-with spaces/and:colons")
	assert.Regexp(t, `^proj_[a-zA-Z0-9_]+$`, name)
}

func TestProjectionAndIndexName_AreStableForSameInput(t *testing.T) {
	a := projectionName("corpus-123")
	b := projectionName("corpus-123")
	assert.Equal(t, a, b)
	assert.Equal(t, indexName("corpus-123"), indexName("corpus-123"))
}

func TestProjectionAndIndexName_DifferForDifferentInputs(t *testing.T) {
	a := projectionName("corpus-a")
	b := projectionName("corpus-b")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, indexName("corpus-a"), indexName("corpus-b"))
}

func TestAdvisoryLockKey_StableAndDistinct(t *testing.T) {
	assert.Equal(t, advisoryLockKey("x"), advisoryLockKey("x"))
	assert.NotEqual(t, advisoryLockKey("x"), advisoryLockKey("y"))
}
