// Package storage 实现照片存储 (Photo Store) 协作方:
// 上传任务凭证照片并返回可访问的 URL。
// 上传是两阶段操作的第一阶段,必须可以通过 context 取消;
// 第二阶段 (把 URL 追加到任务) 由 service 层完成。
package storage

import (
	"context"
	"fmt"
	"io"
)

// PhotoStore 照片存储接口
type PhotoStore interface {
	// Upload 上传照片,返回可访问的 URL 和对象 key
	// 调用方放弃时通过 ctx 取消传输
	Upload(ctx context.Context, p *UploadInput) (*UploadResult, error)
	// Remove 删除对象,用于尽力清理孤儿 blob
	Remove(ctx context.Context, key string) error
	// CheckHealth 检查存储可达性
	CheckHealth(ctx context.Context) error
}

// UploadInput 上传参数
type UploadInput struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// UploadResult 上传结果
type UploadResult struct {
	URL string
	Key string
}

// UploadError 照片存储错误
// 按单张照片暴露,不中断任务整体状态
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("photo store: %s: %v", e.Op, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// extFromContentType 根据 Content-Type 推断文件扩展名
func extFromContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
