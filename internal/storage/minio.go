package storage

import (
	"context"
	"fmt"

	"github.com/Teja20002/EZY-Management/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore 基于 MinIO (S3 兼容) 的照片存储
type MinIOStore struct {
	client *minio.Client
	bucket string
	useSSL bool
	host   string
}

// NewMinIOStore 创建 MinIO 照片存储,桶不存在时自动创建
func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
		useSSL: cfg.UseSSL,
		host:   cfg.Endpoint,
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return s, nil
}

// Upload 上传照片到 MinIO
func (s *MinIOStore) Upload(ctx context.Context, p *UploadInput) (*UploadResult, error) {
	key := fmt.Sprintf("taskPhotos/%s%s", uuid.New().String(), extFromContentType(p.ContentType))

	_, err := s.client.PutObject(ctx, s.bucket, key, p.Reader, p.Size, minio.PutObjectOptions{
		ContentType: p.ContentType,
	})
	if err != nil {
		return nil, &UploadError{Op: "put object", Err: err}
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return &UploadResult{
		URL: fmt.Sprintf("%s://%s/%s/%s", scheme, s.host, s.bucket, key),
		Key: key,
	}, nil
}

// Remove 删除对象
func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &UploadError{Op: "remove object", Err: err}
	}
	return nil
}

// CheckHealth 检查 MinIO 可达性
func (s *MinIOStore) CheckHealth(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return &UploadError{Op: "check bucket", Err: err}
	}
	return nil
}
