package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Store 原始文件存储抽象
// 上传的文档在进入转换管线之前先落盘/落对象存储
type Store interface {
	// Save 以净化后的文件名保存文件，返回后续读取用的本地路径
	Save(ctx context.Context, filename string, reader io.Reader, size int64) (string, error)
}

var filenameSafeRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename 净化上传文件名
// 去掉路径成分，空白替换为下划线，仅保留字母数字和 _ . - 字符
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.Clean(filename))
	filename = strings.ReplaceAll(filename, " ", "_")
	filename = filenameSafeRe.ReplaceAllString(filename, "")
	filename = strings.TrimLeft(filename, "._-")
	return filename
}

// LocalStore 本地目录存储
type LocalStore struct {
	dir string
}

// NewLocalStore 创建本地存储，目录不存在时创建
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "documents"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create documents dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir 返回文档目录
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, filename string, reader io.Reader, size int64) (string, error) {
	safe := SanitizeFilename(filename)
	if safe == "" {
		return "", fmt.Errorf("filename %q is empty after sanitizing", filename)
	}

	path := filepath.Join(s.dir, safe)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}
