package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// AnswerCache 查询应答的Redis缓存
// 只缓存真实生成的回答，哨兵值和无结果应答不入缓存
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnswerCache 创建应答缓存
func NewAnswerCache(client *redis.Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{client: client, ttl: ttl}
}

func (c *AnswerCache) key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "rag:answer:" + hex.EncodeToString(sum[:])
}

// Get 查询缓存，未命中或Redis异常都返回未命中
func (c *AnswerCache) Get(ctx context.Context, prompt string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	answer, err := c.client.Get(ctx, c.key(prompt)).Result()
	if err != nil {
		return "", false
	}
	return answer, true
}

// Set 写入缓存，失败静默忽略
func (c *AnswerCache) Set(ctx context.Context, prompt, answer string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, c.key(prompt), answer, c.ttl)
}
