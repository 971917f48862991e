package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aihub/rag-go/internal/config"
)

// MinIOStore MinIO对象存储
// 对象作为持久副本保存，同时在本地暂存目录落一份供解析管线读取
type MinIOStore struct {
	client  *minio.Client
	bucket  string
	staging *LocalStore
}

// NewMinIOStore 创建MinIO存储并确保bucket存在
func NewMinIOStore(ctx context.Context, cfg config.ObjectStorageConfig, stagingDir string) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "documents"
	}

	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			errStr := err.Error()
			if !strings.Contains(errStr, "BucketAlreadyExists") &&
				!strings.Contains(errStr, "BucketAlreadyOwnedByYou") {
				return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
			}
		}
	}

	staging, err := NewLocalStore(stagingDir)
	if err != nil {
		return nil, err
	}

	return &MinIOStore{
		client:  client,
		bucket:  cfg.Bucket,
		staging: staging,
	}, nil
}

func (s *MinIOStore) Save(ctx context.Context, filename string, reader io.Reader, size int64) (string, error) {
	safe := SanitizeFilename(filename)
	if safe == "" {
		return "", fmt.Errorf("filename %q is empty after sanitizing", filename)
	}

	contentType := mime.TypeByExtension(filepath.Ext(safe))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// 边上传边写本地暂存副本
	pipeReader, pipeWriter := io.Pipe()
	tee := io.TeeReader(reader, pipeWriter)

	uploadErr := make(chan error, 1)
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, safe, pipeReader, size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		pipeReader.CloseWithError(err)
		uploadErr <- err
	}()

	path, err := s.staging.Save(ctx, safe, tee, size)
	pipeWriter.Close()
	if err != nil {
		<-uploadErr
		return "", err
	}
	if err := <-uploadErr; err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}
	return path, nil
}
