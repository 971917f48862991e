package rag

import (
	"testing"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 索引构建以entity.Index接口返回，余弦度量
func TestNewVectorIndex(t *testing.T) {
	index, err := newVectorIndex()
	require.NoError(t, err)
	require.NotNil(t, index)

	assert.Equal(t, entity.HNSW, index.IndexType())

	params := index.Params()
	assert.Equal(t, string(entity.COSINE), params["metric_type"])
}
