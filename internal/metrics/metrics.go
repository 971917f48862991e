package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsIngested 成功完成全部摄取阶段的文档数
	DocumentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rag_documents_ingested_total",
		Help: "Number of documents that completed the ingestion pipeline.",
	})

	// ChunksIndexed 写入向量库的分块数
	ChunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rag_chunks_indexed_total",
		Help: "Number of chunks upserted into the vector store.",
	})

	// QueriesTotal 查询数，按结果分类
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_queries_total",
		Help: "Number of queries processed, partitioned by outcome.",
	}, []string{"outcome"})

	// GenerationFailures 折叠为哨兵值的LLM调用失败数
	GenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rag_generation_failures_total",
		Help: "Number of LLM completion calls collapsed into the failure sentinel.",
	})

	// CacheHits 命中应答缓存的查询数
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rag_answer_cache_hits_total",
		Help: "Number of queries answered from the Redis answer cache.",
	})
)
