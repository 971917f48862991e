package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "notes.txt", "notes.txt"},
		{"spaces to underscore", "my notes.txt", "my_notes.txt"},
		{"path stripped", "../../etc/passwd", "passwd"},
		{"absolute path stripped", "/tmp/evil.pdf", "evil.pdf"},
		{"special chars removed", "a&b!(c).md", "abc.md"},
		{"leading dots trimmed", "..hidden.txt", "hidden.txt"},
		{"non ascii removed", "报告.pdf", "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	content := "hello rag"
	path, err := store.Save(context.Background(), "my notes.txt", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my_notes.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// 同名文件重复保存直接覆盖
func TestLocalStoreSaveOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Save(ctx, "doc.txt", strings.NewReader("first"), 5)
	require.NoError(t, err)
	path, err := store.Save(ctx, "doc.txt", strings.NewReader("second"), 6)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStoreSaveEmptyFilename(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "...", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestNewLocalStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "documents")
	_, err := NewLocalStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
