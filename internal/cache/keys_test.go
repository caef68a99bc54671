package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "coursecraft:tree:course:c1", GenerateCacheKey("tree", "course", "c1"))
	assert.Equal(t, "coursecraft:tree:course:c1:depth_2", GenerateCacheKey("tree", "course", "c1", "depth", "2"))
}
