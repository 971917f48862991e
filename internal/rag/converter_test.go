package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aihub/rag-go/internal/errors"
)

// fakeEmbedder 为每段文本生成确定性的固定维度向量
type fakeEmbedder struct {
	dimensions int
	calls      [][]string
}

func newFakeEmbedder(dimensions int) *fakeEmbedder {
	return &fakeEmbedder{dimensions: dimensions}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector := make([]float32, f.dimensions)
		for j, r := range text {
			vector[j%f.dimensions] += float32(r)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int {
	return f.dimensions
}

func (f *fakeEmbedder) Ready() bool {
	return true
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertToChunksTextFile(t *testing.T) {
	words := make([]string, 250)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	path := writeTempFile(t, "notes.txt", strings.Join(words, "\n"))

	embedder := newFakeEmbedder(8)
	converter := NewConverter(NewChunker(200), embedder)

	chunks, err := converter.ConvertToChunks(context.Background(), path, "notes.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// 块ID由文档名和0起始的块序号组成
	assert.Equal(t, "notes.txt_chunk_0", chunks[0].ID)
	assert.Equal(t, "notes.txt_chunk_1", chunks[1].ID)
	assert.Len(t, strings.Fields(chunks[0].Text), 200)
	assert.Len(t, strings.Fields(chunks[1].Text), 50)

	// 所有块的向量维度一致
	for _, chunk := range chunks {
		assert.Len(t, chunk.Embedding, 8)
	}

	// 向量化按批次调用一次
	require.Len(t, embedder.calls, 1)
	assert.Len(t, embedder.calls[0], 2)
}

func TestConvertToChunksMarkdown(t *testing.T) {
	content := "# Title\n\nSome **bold** and _italic_ text with `code`.\n" +
		"A [link](https://example.com) here.\n~~strike~~ done."
	path := writeTempFile(t, "readme.md", content)

	converter := NewConverter(NewChunker(200), newFakeEmbedder(4))
	chunks, err := converter.ConvertToChunks(context.Background(), path, "readme.md")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	text := chunks[0].Text
	// 格式标记全部移除，链接整体移除而非保留标签
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "*")
	assert.NotContains(t, text, "_")
	assert.NotContains(t, text, "`")
	assert.NotContains(t, text, "~")
	assert.NotContains(t, text, "link")
	assert.NotContains(t, text, "example.com")
	// 普通词保持不变
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "bold")
	assert.Contains(t, text, "italic")
	assert.Contains(t, text, "code")
	assert.Contains(t, text, "done.")
}

func TestConvertToChunksUnsupportedType(t *testing.T) {
	path := writeTempFile(t, "data.csv", "a,b,c")

	converter := NewConverter(NewChunker(200), newFakeEmbedder(4))
	chunks, err := converter.ConvertToChunks(context.Background(), path, "data.csv")
	assert.Nil(t, chunks)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnsupportedFileType))
}

func TestConvertToChunksEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "   \n\n  ")

	converter := NewConverter(NewChunker(200), newFakeEmbedder(4))
	chunks, err := converter.ConvertToChunks(context.Background(), path, "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heading", "## Heading text", "Heading text"},
		{"emphasis", "**bold** and *italic*", "bold and italic"},
		{"inline code", "run `go test` now", "run go test now"},
		{"link removed entirely", "see [docs](http://x.dev) please", "see  please"},
		{"plain prose untouched", "nothing special here", "nothing special here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdown(tt.input))
		})
	}
}
