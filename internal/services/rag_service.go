package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/aihub/rag-go/internal/errors"
	"github.com/aihub/rag-go/internal/logger"
	"github.com/aihub/rag-go/internal/metrics"
	"github.com/aihub/rag-go/internal/models"
	"github.com/aihub/rag-go/internal/rag"
	"github.com/aihub/rag-go/internal/repository"
	"github.com/aihub/rag-go/internal/storage"
)

// NoRelevantDocuments 检索无结果时的固定应答
const NoRelevantDocuments = "No relevant documents found."

// RAGService 摄取与查询两条流程的编排器
// 所有依赖在启动时显式构造注入，请求之间复用
type RAGService struct {
	converter       *rag.Converter
	embedder        rag.Embedder
	store           rag.VectorStore
	generator       *rag.Generator
	fileStore       storage.Store
	documents       *repository.DocumentRepo // 可选，未配置数据库时为nil
	cache           *AnswerCache             // 可选，未配置Redis时为nil
	topK            int
	maxContextChars int
}

// RAGServiceOptions RAG服务构造参数
type RAGServiceOptions struct {
	Converter       *rag.Converter
	Embedder        rag.Embedder
	Store           rag.VectorStore
	Generator       *rag.Generator
	FileStore       storage.Store
	Documents       *repository.DocumentRepo
	Cache           *AnswerCache
	TopK            int
	MaxContextChars int
}

// NewRAGService 创建RAG服务
func NewRAGService(opts RAGServiceOptions) *RAGService {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	return &RAGService{
		converter:       opts.Converter,
		embedder:        opts.Embedder,
		store:           opts.Store,
		generator:       opts.Generator,
		fileStore:       opts.FileStore,
		documents:       opts.Documents,
		cache:           opts.Cache,
		topK:            opts.TopK,
		maxContextChars: opts.MaxContextChars,
	}
}

// IngestDocument 摄取流程：保存原始文件 → 转换分块 → 写入向量库 → 登记
// 每个阶段的失败独立上报并中止后续阶段，已完成的阶段不回滚
func (s *RAGService) IngestDocument(ctx context.Context, docName, filename string, file io.Reader, size int64) error {
	path, err := s.fileStore.Save(ctx, filename, file, size)
	if err != nil {
		return apperrors.NewStorageFailure(fmt.Sprintf("Failed to save file: %v", err), err)
	}

	chunks, err := s.converter.ConvertToChunks(ctx, path, docName)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeUnsupportedFileType) {
			return err
		}
		return apperrors.NewConversionFailure(fmt.Sprintf("Failed to read or parse document: %v", err), err)
	}

	if err := s.store.Insert(ctx, chunks); err != nil {
		return apperrors.NewStorageFailure(fmt.Sprintf("Failed to insert into database: %v", err), err)
	}
	if len(chunks) == 0 {
		logger.Info("no chunks to insert", zap.String("doc_name", docName))
	}

	// 登记记录失败不影响摄取结果，只记录告警
	if s.documents != nil {
		doc := &models.Document{
			DocName:    docName,
			Filename:   filename,
			FilePath:   path,
			FileType:   strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")),
			ChunkCount: len(chunks),
			Status:     "ready",
		}
		if err := s.documents.Upsert(doc); err != nil {
			logger.Warn("failed to record document", zap.String("doc_name", docName), zap.Error(err))
		}
	}

	metrics.DocumentsIngested.Inc()
	metrics.ChunksIndexed.Add(float64(len(chunks)))
	logger.Info("document ingested",
		zap.String("doc_name", docName),
		zap.Int("chunks", len(chunks)))
	return nil
}

// Query 查询流程：向量化问题 → 相似度检索 → 组装上下文 → 生成回答
// 检索命中哨兵时直接返回固定应答，不调用生成器
func (s *RAGService) Query(ctx context.Context, prompt string) (string, error) {
	if answer, ok := s.cache.Get(ctx, prompt); ok {
		metrics.CacheHits.Inc()
		metrics.QueriesTotal.WithLabelValues("cached").Inc()
		return answer, nil
	}

	queryVector, err := s.embedder.Embed(ctx, prompt)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.store.SimilaritySearch(ctx, queryVector, s.topK)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("similarity search failed: %w", err)
	}

	if len(results) == 0 || results[0].ID == "" {
		metrics.QueriesTotal.WithLabelValues("no_match").Inc()
		return NoRelevantDocuments, nil
	}

	contextText := s.buildContext(results)
	answer := s.generator.ProcessAndRespond(ctx, contextText, prompt)
	if answer == rag.FailedResponse {
		metrics.GenerationFailures.Inc()
		metrics.QueriesTotal.WithLabelValues("generation_failed").Inc()
		return answer, nil
	}

	s.cache.Set(ctx, prompt, answer)
	metrics.QueriesTotal.WithLabelValues("answered").Inc()
	return answer, nil
}

// buildContext 按检索排名拼接分块文本，超出上限时截断
// 无上限的上下文可能超过LLM输入限制，截断策略是显式配置
func (s *RAGService) buildContext(results []rag.QueryResult) string {
	texts := make([]string, 0, len(results))
	for _, result := range results {
		texts = append(texts, result.Text)
	}
	contextText := strings.Join(texts, "\n")

	if s.maxContextChars > 0 && len(contextText) > s.maxContextChars {
		truncated := []rune(contextText)
		if len(truncated) > s.maxContextChars {
			truncated = truncated[:s.maxContextChars]
		}
		contextText = string(truncated)
		logger.Warn("context truncated", zap.Int("max_chars", s.maxContextChars))
	}
	return contextText
}

// DeleteDocument 按完整分块ID删除向量库条目
// 多分块文档需要调用方逐个分块ID删除
func (s *RAGService) DeleteDocument(ctx context.Context, docName string) (bool, error) {
	deleted, err := s.store.DeleteByDocName(ctx, docName)
	if err != nil {
		return false, err
	}
	if deleted && s.documents != nil {
		if err := s.documents.Delete(docName); err != nil {
			logger.Warn("failed to delete document record", zap.String("doc_name", docName), zap.Error(err))
		}
	}
	return deleted, nil
}

// DocumentExists 按完整分块ID查询是否存在
func (s *RAGService) DocumentExists(ctx context.Context, docName string) (bool, error) {
	return s.store.DocNameExists(ctx, docName)
}
