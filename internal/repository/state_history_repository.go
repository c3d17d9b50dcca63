package repository

import (
	"github.com/Teja20002/EZY-Management/internal/model"
	"gorm.io/gorm"
)

// StateHistoryRepository 状态历史仓储接口
type StateHistoryRepository interface {
	Save(history *model.StateHistoryModel) error
	FindByTask(taskID string) ([]*model.StateHistoryModel, error)
}

// stateHistoryRepository 状态历史仓储实现
type stateHistoryRepository struct {
	db *gorm.DB
}

// NewStateHistoryRepository 创建状态历史仓储
func NewStateHistoryRepository(db *gorm.DB) StateHistoryRepository {
	return &stateHistoryRepository{db: db}
}

// Save 保存状态历史
func (r *stateHistoryRepository) Save(history *model.StateHistoryModel) error {
	if err := history.Validate(); err != nil {
		return err
	}
	return r.db.Create(history).Error
}

// FindByTask 查找任务的状态历史,按时间升序
func (r *stateHistoryRepository) FindByTask(taskID string) ([]*model.StateHistoryModel, error) {
	var history []*model.StateHistoryModel
	err := r.db.Where("task_id = ?", taskID).Order("created_at ASC").Find(&history).Error
	return history, err
}
