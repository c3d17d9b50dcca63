package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Teja20002/EZY-Management/internal/auth"
	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/model"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/Teja20002/EZY-Management/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 用户目录的错误定义
var (
	ErrEmptyName          = &lifecycle.Error{Kind: lifecycle.KindValidation, Code: "EMPTY_NAME", Message: "name cannot be empty"}
	ErrEmptyEmail         = &lifecycle.Error{Kind: lifecycle.KindValidation, Code: "EMPTY_EMAIL", Message: "email cannot be empty"}
	ErrPasswordTooShort   = &lifecycle.Error{Kind: lifecycle.KindValidation, Code: "PASSWORD_TOO_SHORT", Message: "password must be at least 8 characters"}
	ErrEmailTaken         = &lifecycle.Error{Kind: lifecycle.KindConflict, Code: "EMAIL_TAKEN", Message: "email is already registered"}
	ErrInvalidCredentials = &lifecycle.Error{Kind: lifecycle.KindForbidden, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
)

// User 用户视图,不携带密码哈希
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult 注册/登录结果
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserService 用户目录服务接口
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Me(ctx context.Context, actor lifecycle.Actor) (*User, error)
	ByRole(ctx context.Context, actor lifecycle.Actor, role string) ([]*User, error)
	UpdateRole(ctx context.Context, actor lifecycle.Actor, userID, role string) (*User, error)
}

// userService 用户目录服务实现
type userService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	audit  AuditService
}

// NewUserService 创建用户目录服务
func NewUserService(users repository.UserRepository, tokens *auth.TokenManager, audit AuditService) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
		audit:  audit,
	}
}

// Register 注册新用户并签发访问令牌
func (s *userService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, ErrEmptyName
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	role, err := lifecycle.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, lifecycle.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.UserModel{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login 校验凭证并签发访问令牌
// 用户不存在与密码错误返回同一个错误,不泄露邮箱是否注册
func (s *userService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, lifecycle.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me 返回当前认证用户
func (s *userService) Me(ctx context.Context, actor lifecycle.Actor) (*User, error) {
	user, err := s.users.FindByID(actor.ID)
	if err != nil {
		return nil, err
	}
	return toUser(user), nil
}

// ByRole 按角色查询用户,用于创建任务时的指派人选择列表
// 只对审核角色开放
func (s *userService) ByRole(ctx context.Context, actor lifecycle.Actor, role string) ([]*User, error) {
	if !actor.Role.IsReviewer() {
		return nil, lifecycle.ErrNotReviewer
	}
	parsed, err := lifecycle.ParseRole(role)
	if err != nil {
		return nil, err
	}

	models, err := s.users.FindByRole(string(parsed))
	if err != nil {
		return nil, err
	}
	users := make([]*User, 0, len(models))
	for _, m := range models {
		users = append(users, toUser(m))
	}
	return users, nil
}

// UpdateRole 变更用户角色,只有 owner 可以执行
func (s *userService) UpdateRole(ctx context.Context, actor lifecycle.Actor, userID, role string) (*User, error) {
	if actor.Role != lifecycle.RoleOwner {
		return nil, lifecycle.ErrNotOwner
	}
	parsed, err := lifecycle.ParseRole(role)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	previous := user.Role

	if err := s.users.UpdateRole(userID, string(parsed)); err != nil {
		return nil, err
	}

	if s.audit != nil {
		err := s.audit.Record(actor.ID, "update_role", "user", userID, utils.RequestID(ctx), map[string]interface{}{
			"from": previous,
			"to":   string(parsed),
		})
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("failed to record audit log")
		}
	}

	user.Role = string(parsed)
	return toUser(user), nil
}

// issue 签发令牌并组装认证结果
func (s *userService) issue(user *model.UserModel) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token: token,
		User:  toUser(user),
	}, nil
}

// toUser 将数据模型转换为用户视图
func toUser(um *model.UserModel) *User {
	return &User{
		ID:        um.ID,
		Name:      um.Name,
		Email:     um.Email,
		Role:      um.Role,
		CreatedAt: um.CreatedAt,
	}
}
