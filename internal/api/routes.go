package api

import (
	"github.com/Teja20002/EZY-Management/internal/auth"
	"github.com/Teja20002/EZY-Management/internal/config"
	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/Teja20002/EZY-Management/internal/storage"
	"github.com/Teja20002/EZY-Management/internal/websocket"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	Config *config.Config
	DB     *gorm.DB
	Store  storage.PhotoStore
	Tokens *auth.TokenManager
	Users  service.UserService
	Tasks  service.TaskService
	Photos service.PhotoService
	Hub    *websocket.Hub
}

// SetupRoutes 配置路由
func SetupRoutes(deps RouterDeps) *gin.Engine {
	if config.IsProduction(deps.Config) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	if deps.Config != nil {
		router.Use(CORSMiddleware(deps.Config.CORS.AllowedOrigins))
	}
	router.Use(RateLimitMiddleware(100, 200))

	// 健康检查
	healthController := NewHealthController(deps.DB, deps.Store)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// WebSocket 任务事件推送
	if deps.Hub != nil && deps.Tokens != nil {
		router.GET("/ws/tasks", websocket.Handler(deps.Hub, deps.Tokens))
	}

	authController := NewAuthController(deps.Users)
	userController := NewUserController(deps.Users)
	taskController := NewTaskController(deps.Tasks, deps.Photos)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 认证路由,无需令牌
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authController.Register)
			authGroup.POST("/login", authController.Login)
		}

		// 用户目录路由
		users := v1.Group("/users", auth.AuthMiddleware(deps.Tokens))
		{
			users.GET("/me", userController.Me)
			users.GET("", userController.List)
			users.PUT("/:id/role", userController.UpdateRole)
		}

		// 任务生命周期路由
		tasks := v1.Group("/tasks", auth.AuthMiddleware(deps.Tokens))
		{
			tasks.POST("", taskController.Create)
			tasks.GET("/assigned-to-me", taskController.AssignedToMe)
			tasks.GET("/assigned-by-me", taskController.AssignedByMe)
			tasks.GET("/review", taskController.Review)
			tasks.GET("/:id", taskController.Get)
			tasks.POST("/:id/photos", taskController.UploadPhoto)
			tasks.POST("/:id/submit", taskController.Submit)
			tasks.POST("/:id/complete", taskController.Complete)
			tasks.POST("/:id/reject", taskController.Reject)
		}
	}

	return router
}
