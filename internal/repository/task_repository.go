package repository

import (
	"errors"
	"time"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository 任务仓储接口
// 状态迁移全部使用条件更新 (check-and-set),保证每个任务的
// 每次迁移至多成功应用一次,并发的重复提交/重复完成返回冲突
type TaskRepository interface {
	Create(task *model.TaskModel) error
	FindByID(id string) (*model.TaskModel, error)
	FindByAssignee(userID string) ([]*model.TaskModel, error)
	FindByAssigner(userID string) ([]*model.TaskModel, error)
	FindSubmittedPendingReview() ([]*model.TaskModel, error)
	AppendPhoto(id string, photoURL string) error
	MarkSubmitted(id string, at time.Time) error
	MarkCompleted(id string, at time.Time) error
	MarkRejected(id string) error
}

// taskRepository 任务仓储实现
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create 持久化新任务
func (r *taskRepository) Create(task *model.TaskModel) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return r.db.Create(task).Error
}

// FindByID 根据 ID 查找任务
func (r *taskRepository) FindByID(id string) (*model.TaskModel, error) {
	var task model.TaskModel
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByAssignee 查找指派给某用户的任务
func (r *taskRepository) FindByAssignee(userID string) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.Where("assigned_to = ?", userID).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindByAssigner 查找某用户创建的任务
func (r *taskRepository) FindByAssigner(userID string) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.Where("assigned_by = ?", userID).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindSubmittedPendingReview 查找已提交待审核的任务
func (r *taskRepository) FindSubmittedPendingReview() ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.Where("is_submitted = ? AND is_completed = ?", true, false).
		Order("submitted_at ASC").Find(&tasks).Error
	return tasks, err
}

// AppendPhoto 追加照片 URL
// 读取时加行锁 (SELECT ... FOR UPDATE),并发追加串行化,
// 后写入方不会用旧列表覆盖已确认的照片;SQLite 驱动忽略
// 行锁子句,由其单写事务模型保证同样的串行化
func (r *taskRepository) AppendPhoto(id string, photoURL string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task model.TaskModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lifecycle.ErrTaskNotFound
			}
			return err
		}
		if task.IsSubmitted {
			return lifecycle.ErrPhotoListFrozen
		}

		photos, err := task.Photos()
		if err != nil {
			return err
		}
		if err := task.SetPhotos(append(photos, photoURL)); err != nil {
			return err
		}

		// 条件更新: 提交发生在读取之后时放弃追加
		res := tx.Model(&model.TaskModel{}).
			Where("id = ? AND is_submitted = ?", id, false).
			Updates(map[string]interface{}{
				"uploaded_photos": task.UploadedPhotos,
				"updated_at":      time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return lifecycle.ErrPhotoListFrozen
		}
		return nil
	})
}

// MarkSubmitted 标记任务为已提交
// 条件更新 keyed on is_submitted=false,重复提交返回 AlreadySubmitted
func (r *taskRepository) MarkSubmitted(id string, at time.Time) error {
	res := r.db.Model(&model.TaskModel{}).
		Where("id = ? AND is_submitted = ?", id, false).
		Updates(map[string]interface{}{
			"is_submitted": true,
			"submitted_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.transitionConflict(id, lifecycle.ErrAlreadySubmitted)
	}
	return nil
}

// MarkCompleted 标记任务为已完成
// 条件同时要求 is_submitted=true,使不变式 completed ⇒ submitted
// 在存储层不可违反
func (r *taskRepository) MarkCompleted(id string, at time.Time) error {
	res := r.db.Model(&model.TaskModel{}).
		Where("id = ? AND is_submitted = ? AND is_completed = ?", id, true, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.reviewConflict(id)
	}
	return nil
}

// MarkRejected 驳回已提交的任务,退回给指派人
func (r *taskRepository) MarkRejected(id string) error {
	res := r.db.Model(&model.TaskModel{}).
		Where("id = ? AND is_submitted = ? AND is_completed = ?", id, true, false).
		Updates(map[string]interface{}{
			"is_submitted": false,
			"submitted_at": nil,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.reviewConflict(id)
	}
	return nil
}

// transitionConflict 区分迁移失败原因: 任务不存在返回 NotFound,
// 否则返回调用方给定的冲突错误
func (r *taskRepository) transitionConflict(id string, conflict error) error {
	var count int64
	if err := r.db.Model(&model.TaskModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return lifecycle.ErrTaskNotFound
	}
	return conflict
}

// reviewConflict 区分审核迁移 (complete/reject) 的失败原因
func (r *taskRepository) reviewConflict(id string) error {
	var task model.TaskModel
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lifecycle.ErrTaskNotFound
		}
		return err
	}
	if !task.IsSubmitted {
		return lifecycle.ErrNotSubmitted
	}
	return lifecycle.ErrAlreadyCompleted
}
