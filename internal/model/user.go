package model

import (
	"errors"
	"time"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
)

// UserModel 用户数据模型
// ID 由身份提供方分配,创建后不可变;role 的变更只允许 owner 执行
type UserModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(32);not null;index"` // owner/supervisor/manager/employee
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// Validate 验证用户模型
func (um *UserModel) Validate() error {
	if um.ID == "" {
		return errors.New("user ID is required")
	}
	if um.Name == "" {
		return errors.New("name is required")
	}
	if um.Email == "" {
		return errors.New("email is required")
	}
	if !lifecycle.Role(um.Role).Valid() {
		return errors.New("role must be owner, supervisor, manager or employee")
	}
	return nil
}
