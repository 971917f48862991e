package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// MilvusOptions Milvus客户端配置
type MilvusOptions struct {
	Address    string
	Username   string
	Password   string
	Collection string
	Database   string
	VectorSize int
	UseTLS     bool
	Timeout    time.Duration
}

type milvusVectorStore struct {
	milvusClient client.Client
	collection   string
	vectorSize   int
}

// NewMilvusVectorStore 创建Milvus向量存储
// 集合使用VarChar主键（分块ID），余弦距离度量
func NewMilvusVectorStore(ctx context.Context, opts MilvusOptions) (VectorStore, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.Collection == "" {
		opts.Collection = "docs"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 384
	}
	if opts.Database == "" {
		opts.Database = "default"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	milvusClient, err := client.NewClient(connectCtx, client.Config{
		Address:       opts.Address,
		DBName:        opts.Database,
		Username:      opts.Username,
		Password:      opts.Password,
		EnableTLSAuth: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	store := &milvusVectorStore{
		milvusClient: milvusClient,
		collection:   opts.Collection,
		vectorSize:   opts.VectorSize,
	}

	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *milvusVectorStore) ensureCollection(ctx context.Context) error {
	hasCollection, err := s.milvusClient.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !hasCollection {
		schema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "document chunks with embeddings",
			Fields: []*entity.Field{
				{
					Name:       "id",
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					AutoID:     false,
					TypeParams: map[string]string{
						"max_length": "512",
					},
				},
				{
					Name:     "chunk_text",
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "65535",
					},
				},
				{
					Name:     "vector",
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", s.vectorSize),
					},
				},
			},
		}

		if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		index, err := newVectorIndex()
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		if err := s.milvusClient.CreateIndex(ctx, s.collection, "vector", index, false); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// 搜索和标量查询都要求集合已加载
	if err := s.milvusClient.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	return nil
}

// newVectorIndex 构建向量字段索引，两种实现都以entity.Index接口返回
func newVectorIndex() (entity.Index, error) {
	index, err := entity.NewIndexHNSW(entity.COSINE, 8, 64)
	if err != nil {
		// HNSW不可用时退回IVF_FLAT
		return entity.NewIndexIvfFlat(entity.COSINE, 128)
	}
	return index, nil
}

func (s *milvusVectorStore) Insert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) != s.vectorSize {
			return fmt.Errorf("vector dimension mismatch for %s: got %d, want %d",
				chunk.ID, len(chunk.Embedding), s.vectorSize)
		}
		ids[i] = chunk.ID
		texts[i] = chunk.Text
		vectors[i] = chunk.Embedding
	}

	idColumn := entity.NewColumnVarChar("id", ids)
	textColumn := entity.NewColumnVarChar("chunk_text", texts)
	vectorColumn := entity.NewColumnFloatVector("vector", s.vectorSize, vectors)

	// Upsert：已存在的ID被整体替换，不会追加重复条目
	if _, err := s.milvusClient.Upsert(ctx, s.collection, "", idColumn, textColumn, vectorColumn); err != nil {
		return fmt.Errorf("milvus upsert failed: %w", err)
	}

	if err := s.milvusClient.Flush(ctx, s.collection, false); err != nil {
		return fmt.Errorf("milvus flush failed: %w", err)
	}
	return nil
}

func (s *milvusVectorStore) SimilaritySearch(ctx context.Context, queryVector []float32, topK int) ([]QueryResult, error) {
	if len(queryVector) == 0 {
		return []QueryResult{{}}, nil
	}
	if topK <= 0 {
		topK = 5
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	searchResults, err := s.milvusClient.Search(
		ctx,
		s.collection,
		[]string{},
		"",
		[]string{"chunk_text"},
		[]entity.Vector{entity.FloatVector(queryVector)},
		"vector",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	if len(searchResults) == 0 {
		return []QueryResult{{}}, nil
	}
	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("milvus search error: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []QueryResult{{}}, nil
	}

	var ids []string
	if idColumn, ok := result.IDs.(*entity.ColumnVarChar); ok {
		ids = idColumn.Data()
	}
	var texts []string
	for _, field := range result.Fields {
		if field.Name() == "chunk_text" {
			if textColumn, ok := field.(*entity.ColumnVarChar); ok {
				texts = textColumn.Data()
			}
		}
	}

	results := make([]QueryResult, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		item := QueryResult{}
		if i < len(ids) {
			item.ID = ids[i]
		}
		if i < len(texts) {
			item.Text = texts[i]
		}
		if i < len(result.Scores) {
			item.Score = float64(result.Scores[i])
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *milvusVectorStore) DeleteByDocName(ctx context.Context, docName string) (bool, error) {
	exists, err := s.DocNameExists(ctx, docName)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	expr := fmt.Sprintf("id == %q", docName)
	if err := s.milvusClient.Delete(ctx, s.collection, "", expr); err != nil {
		return false, fmt.Errorf("milvus delete failed: %w", err)
	}

	if err := s.milvusClient.Flush(ctx, s.collection, false); err != nil {
		return true, fmt.Errorf("milvus flush failed: %w", err)
	}
	return true, nil
}

func (s *milvusVectorStore) DocNameExists(ctx context.Context, docName string) (bool, error) {
	expr := fmt.Sprintf("id == %q", docName)
	resultSet, err := s.milvusClient.Query(ctx, s.collection, nil, expr, []string{"id"})
	if err != nil {
		return false, fmt.Errorf("milvus query failed: %w", err)
	}

	for _, column := range resultSet {
		if column.Name() == "id" && column.Len() > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *milvusVectorStore) Ready() bool {
	if s.milvusClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.milvusClient.ListCollections(ctx)
	return err == nil
}
