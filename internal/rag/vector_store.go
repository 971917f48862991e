package rag

import "context"

// Chunk 文档分块，入库的最小单元
// ID由文档名和块序号组成：<doc_name>_chunk_<index>，全局唯一
type Chunk struct {
	ID        string
	Text      string
	Embedding []float32
}

// QueryResult 相似度检索结果
// Score是存储引擎的原始距离值（参考配置为余弦距离，越小越相似）
// 空库检索返回单个零值结果作为哨兵，调用方通过ID是否为空判断
type QueryResult struct {
	ID    string
	Text  string
	Score float64
}

// VectorStore 向量存储抽象
type VectorStore interface {
	// Insert 按ID upsert所有分块，空输入为无操作
	Insert(ctx context.Context, chunks []Chunk) error
	// SimilaritySearch 返回至多topK个结果，按相似度降序排列
	// 底层无文档或无距离时返回单个哨兵结果（ID为空）
	SimilaritySearch(ctx context.Context, queryVector []float32, topK int) ([]QueryResult, error)
	// DeleteByDocName 按完整ID删除，目标不存在时返回false而非错误
	DeleteByDocName(ctx context.Context, docName string) (bool, error)
	// DocNameExists 按完整ID查询是否至少存在一条记录
	DocNameExists(ctx context.Context, docName string) (bool, error)
	Ready() bool
}
