package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 未配置Redis时缓存为nil指针，读写都必须安全降级
func TestAnswerCacheNilSafe(t *testing.T) {
	var cache *AnswerCache

	_, ok := cache.Get(context.Background(), "prompt")
	assert.False(t, ok)

	// 不应panic
	cache.Set(context.Background(), "prompt", "answer")
}

func TestAnswerCacheNilClient(t *testing.T) {
	cache := NewAnswerCache(nil, 0)

	_, ok := cache.Get(context.Background(), "prompt")
	assert.False(t, ok)
	cache.Set(context.Background(), "prompt", "answer")
}

// 不同问题映射到不同缓存键
func TestAnswerCacheKeyDistinct(t *testing.T) {
	cache := NewAnswerCache(nil, 0)

	assert.NotEqual(t, cache.key("what is go"), cache.key("what is rust"))
	assert.Equal(t, cache.key("same"), cache.key("same"))
}
