package repository

import (
	"errors"
	"time"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/model"
	"gorm.io/gorm"
)

// UserRepository 用户目录仓储接口
type UserRepository interface {
	Create(user *model.UserModel) error
	FindByID(id string) (*model.UserModel, error)
	FindByEmail(email string) (*model.UserModel, error)
	FindByRole(role string) ([]*model.UserModel, error)
	UpdateRole(id string, role string) error
}

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 持久化新用户
func (r *userRepository) Create(user *model.UserModel) error {
	if err := user.Validate(); err != nil {
		return err
	}
	return r.db.Create(user).Error
}

// FindByID 根据 ID 查找用户
// 悬挂引用是数据完整性错误,以 NotFound 显式暴露而不是静默忽略
func (r *userRepository) FindByID(id string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByRole 查找指定角色的用户,用于指派人选择列表
func (r *userRepository) FindByRole(role string) ([]*model.UserModel, error) {
	var users []*model.UserModel
	err := r.db.Where("role = ?", role).Order("name ASC").Find(&users).Error
	return users, err
}

// UpdateRole 更新用户角色
func (r *userRepository) UpdateRole(id string, role string) error {
	res := r.db.Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrUserNotFound
	}
	return nil
}
