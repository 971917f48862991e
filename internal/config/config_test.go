package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, LoadConfig())
	require.NotNil(t, AppConfig)

	assert.Equal(t, "8000", AppConfig.Server.Port)
	assert.Equal(t, 200, AppConfig.RAG.ChunkSize)
	assert.Equal(t, 5, AppConfig.RAG.TopK)
	assert.Equal(t, 384, AppConfig.RAG.Embedding.Dimensions)
	assert.Equal(t, "documents", AppConfig.RAG.DocumentsDir)
	assert.Equal(t, "memory", AppConfig.RAG.VectorStore.Provider)
	assert.Equal(t, "local", AppConfig.RAG.Storage.Provider)
	assert.Equal(t, "https://api.groq.com/openai/v1", AppConfig.RAG.LLM.BaseURL)
	assert.False(t, AppConfig.Database.Enabled)
	assert.False(t, AppConfig.Redis.Enabled)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PORT", "9000")
	t.Setenv("CHUNK_SIZE", "150")
	t.Setenv("EMBEDDING_DIMENSIONS", "768")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("LLM_MODEL", "llama-3.3-70b-versatile")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "9000", AppConfig.Server.Port)
	assert.Equal(t, 150, AppConfig.RAG.ChunkSize)
	assert.Equal(t, 768, AppConfig.RAG.Embedding.Dimensions)
	assert.Equal(t, "gsk_test", AppConfig.RAG.LLM.APIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", AppConfig.RAG.LLM.Model)
}

// 设置Milvus地址即切换向量库实现
func TestLoadConfigMilvusSwitch(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("MILVUS_ADDRESS", "milvus.internal:19530")
	t.Setenv("MILVUS_COLLECTION", "rag_docs")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "milvus", AppConfig.RAG.VectorStore.Provider)
	assert.Equal(t, "milvus.internal:19530", AppConfig.RAG.VectorStore.Milvus.Address)
	assert.Equal(t, "rag_docs", AppConfig.RAG.VectorStore.Milvus.Collection)
}

// 非法数值回退到默认值而不是报错
func TestLoadConfigInvalidNumbers(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("EMBEDDING_DIMENSIONS", "-1")

	require.NoError(t, LoadConfig())

	assert.Equal(t, 200, AppConfig.RAG.ChunkSize)
	assert.Equal(t, 384, AppConfig.RAG.Embedding.Dimensions)
}
