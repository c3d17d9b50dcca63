package service

import (
	"context"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/metrics"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/Teja20002/EZY-Management/internal/storage"
	"github.com/sirupsen/logrus"
)

// PhotoService 照片上传服务接口
// 上传分两阶段: 先写对象存储,成功后原子地把 URL 追加到任务元数据
type PhotoService interface {
	Upload(ctx context.Context, actor lifecycle.Actor, taskID string, input *storage.UploadInput) (*Task, error)
}

// photoService 照片上传服务实现
type photoService struct {
	store storage.PhotoStore
	tasks TaskService
	repo  repository.TaskRepository
}

// NewPhotoService 创建照片上传服务
func NewPhotoService(store storage.PhotoStore, tasks TaskService, repo repository.TaskRepository) PhotoService {
	return &photoService{
		store: store,
		tasks: tasks,
		repo:  repo,
	}
}

// Upload 上传照片并追加到任务
// 授权守卫在写对象存储之前执行;元数据追加失败时产生孤儿 blob,
// 记录指标并尽力删除,任务元数据保持不变
func (s *photoService) Upload(ctx context.Context, actor lifecycle.Actor, taskID string, input *storage.UploadInput) (*Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.AuthorizeAttachPhoto(actor, task.Snapshot()); err != nil {
		return nil, err
	}

	result, err := s.store.Upload(ctx, input)
	if err != nil {
		logrus.WithError(err).WithField("task_id", taskID).Error("photo upload failed")
		return nil, lifecycle.ErrStoreUnavailable
	}

	updated, err := s.tasks.AttachPhoto(ctx, actor, taskID, result.URL)
	if err != nil {
		metrics.RecordOrphanedPhoto()
		logrus.WithFields(logrus.Fields{
			"task_id": taskID,
			"key":     result.Key,
		}).Warn("photo uploaded but metadata append failed")
		if rmErr := s.store.Remove(ctx, result.Key); rmErr != nil {
			logrus.WithError(rmErr).WithField("key", result.Key).Warn("failed to remove orphaned photo")
		}
		return nil, err
	}
	return updated, nil
}
