package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Teja20002/EZY-Management/internal/config"
	"github.com/google/uuid"
)

// LocalStore 本地磁盘照片存储,用于开发和测试环境
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore 创建本地照片存储
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{
		dir:     cfg.LocalDir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Upload 写入照片文件
// 分块拷贝并在每块之间检查 ctx,取消时删除半成品文件
func (s *LocalStore) Upload(ctx context.Context, p *UploadInput) (*UploadResult, error) {
	key := uuid.New().String() + extFromContentType(p.ContentType)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return nil, &UploadError{Op: "create file", Err: err}
	}

	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			f.Close()
			os.Remove(path)
			return nil, &UploadError{Op: "upload cancelled", Err: err}
		}
		n, rerr := p.Reader.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				f.Close()
				os.Remove(path)
				return nil, &UploadError{Op: "write file", Err: werr}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			f.Close()
			os.Remove(path)
			return nil, &UploadError{Op: "read upload", Err: rerr}
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, &UploadError{Op: "close file", Err: err}
	}

	return &UploadResult{
		URL: s.baseURL + "/" + key,
		Key: key,
	}, nil
}

// Remove 删除照片文件
func (s *LocalStore) Remove(ctx context.Context, key string) error {
	// key 来自 Upload,仅包含 uuid 和扩展名
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(key))); err != nil {
		return &UploadError{Op: "remove file", Err: err}
	}
	return nil
}

// CheckHealth 检查存储目录可写
func (s *LocalStore) CheckHealth(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return &UploadError{Op: "stat dir", Err: err}
	}
	return nil
}

// New 根据配置选择照片存储驱动
func New(cfg config.StorageConfig) (PhotoStore, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinIOStore(cfg)
	case "local", "":
		return NewLocalStore(cfg)
	}
	return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
}
