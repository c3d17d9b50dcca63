package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/sirupsen/logrus"
)

// TaskModel 任务数据模型
// assignedBy/assignedTo 创建后不可变,重新指派通过新建任务完成,
// 以保留审计历史
type TaskModel struct {
	ID             string     `gorm:"primaryKey;type:varchar(64)"`
	TaskName       string     `gorm:"type:varchar(255);not null"`
	Description    string     `gorm:"type:text;not null"`
	AssignedBy     string     `gorm:"type:varchar(64);not null;index"` // 创建人 ID
	AssignedTo     string     `gorm:"type:varchar(64);not null;index"` // 指派人 ID
	Priority       string     `gorm:"type:varchar(16);not null"`       // High 或 Normal
	Deadline       time.Time  `gorm:"not null"`
	UploadedPhotos []byte     `gorm:"type:jsonb"` // 照片 URL 的 JSON 数组,按追加顺序
	IsSubmitted    bool       `gorm:"not null;default:false;index"`
	IsCompleted    bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time  `gorm:"not null;index"`
	UpdatedAt      time.Time  `gorm:"not null"`
	SubmittedAt    *time.Time `gorm:"index"` // 提交时间
	CompletedAt    *time.Time
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// Validate 验证任务模型
func (tm *TaskModel) Validate() error {
	if tm.ID == "" {
		return errors.New("task ID is required")
	}
	if tm.TaskName == "" {
		return errors.New("task name is required")
	}
	if tm.Description == "" {
		return errors.New("description is required")
	}
	if tm.AssignedBy == "" {
		return errors.New("assigned by is required")
	}
	if tm.AssignedTo == "" {
		return errors.New("assigned to is required")
	}
	if !lifecycle.Priority(tm.Priority).Valid() {
		return errors.New("priority must be High or Normal")
	}
	// 不变式: 完成的任务必须先提交
	if tm.IsCompleted && !tm.IsSubmitted {
		return errors.New("completed task must be submitted")
	}
	return nil
}

// Photos 反序列化照片 URL 列表
func (tm *TaskModel) Photos() ([]string, error) {
	if len(tm.UploadedPhotos) == 0 {
		return []string{}, nil
	}
	var urls []string
	if err := json.Unmarshal(tm.UploadedPhotos, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// SetPhotos 序列化照片 URL 列表
func (tm *TaskModel) SetPhotos(urls []string) error {
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	tm.UploadedPhotos = data
	return nil
}

// Snapshot 构造授权守卫使用的生命周期快照
// 照片列表损坏时按空列表处理并记录日志,守卫仍能工作
func (tm *TaskModel) Snapshot() lifecycle.Snapshot {
	photos, err := tm.Photos()
	if err != nil {
		logrus.WithError(err).WithField("task_id", tm.ID).Warn("failed to decode uploaded photos")
	}
	return lifecycle.Snapshot{
		AssignedTo:  tm.AssignedTo,
		PhotoCount:  len(photos),
		IsSubmitted: tm.IsSubmitted,
		IsCompleted: tm.IsCompleted,
	}
}
