package container

import (
	"fmt"
	"time"

	"github.com/Teja20002/EZY-Management/internal/auth"
	"github.com/Teja20002/EZY-Management/internal/config"
	"github.com/Teja20002/EZY-Management/internal/database"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/Teja20002/EZY-Management/internal/storage"
	"github.com/Teja20002/EZY-Management/internal/websocket"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、仓储、服务和事件推送
type Container struct {
	db     *gorm.DB
	store  storage.PhotoStore
	tokens *auth.TokenManager
	hub    *websocket.Hub
	users  service.UserService
	tasks  service.TaskService
	photos service.PhotoService
	audits service.AuditService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化数据库（带重试机制）
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. 初始化照片存储
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo store: %w", err)
	}

	// 3. 初始化令牌管理器
	tokens := auth.NewTokenManager(cfg.JWT)

	// 4. 初始化事件推送 Hub
	hub := websocket.NewHub()

	// 5. 初始化仓储和服务
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewStateHistoryRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	audits := service.NewAuditService(auditRepo)
	users := service.NewUserService(userRepo, tokens, audits)
	tasks := service.NewTaskService(taskRepo, userRepo, historyRepo, audits, hub)
	photos := service.NewPhotoService(store, tasks, taskRepo)

	return &Container{
		db:     db,
		store:  store,
		tokens: tokens,
		hub:    hub,
		users:  users,
		tasks:  tasks,
		photos: photos,
		audits: audits,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// PhotoStore 获取照片存储
func (c *Container) PhotoStore() storage.PhotoStore {
	return c.store
}

// TokenManager 获取令牌管理器
func (c *Container) TokenManager() *auth.TokenManager {
	return c.tokens
}

// Hub 获取事件推送 Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// UserService 获取用户目录服务
func (c *Container) UserService() service.UserService {
	return c.users
}

// TaskService 获取任务服务
func (c *Container) TaskService() service.TaskService {
	return c.tasks
}

// PhotoService 获取照片上传服务
func (c *Container) PhotoService() service.PhotoService {
	return c.photos
}

// AuditService 获取审计日志服务
func (c *Container) AuditService() service.AuditService {
	return c.audits
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
