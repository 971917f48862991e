package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// memoryVectorStore 内存向量存储，暴力余弦距离检索
// 用于开发环境和测试，多个摄取/查询流可并发访问
type memoryVectorStore struct {
	mu         sync.RWMutex
	vectorSize int
	records    map[string]Chunk
}

// NewMemoryVectorStore 创建内存向量存储
func NewMemoryVectorStore(vectorSize int) VectorStore {
	if vectorSize <= 0 {
		vectorSize = 384
	}
	return &memoryVectorStore{
		vectorSize: vectorSize,
		records:    make(map[string]Chunk),
	}
}

func (s *memoryVectorStore) Insert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.vectorSize {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(chunk.Embedding), s.vectorSize)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.records[chunk.ID] = chunk
	}
	return nil
}

func (s *memoryVectorStore) SimilaritySearch(ctx context.Context, queryVector []float32, topK int) ([]QueryResult, error) {
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return []QueryResult{{}}, nil
	}

	results := make([]QueryResult, 0, len(s.records))
	for _, chunk := range s.records {
		results = append(results, QueryResult{
			ID:    chunk.ID,
			Text:  chunk.Text,
			Score: cosineDistance(queryVector, chunk.Embedding),
		})
	}

	// 余弦距离越小越相似
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *memoryVectorStore) DeleteByDocName(ctx context.Context, docName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[docName]; !ok {
		return false, nil
	}
	delete(s.records, docName)
	return true, nil
}

func (s *memoryVectorStore) DocNameExists(ctx context.Context, docName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[docName]
	return ok, nil
}

func (s *memoryVectorStore) Ready() bool {
	return true
}

// cosineDistance 计算1-余弦相似度，向量无需预先归一化
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
