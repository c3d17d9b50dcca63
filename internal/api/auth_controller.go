package api

import (
	"net/http"

	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器
type AuthController struct {
	users service.UserService
}

// NewAuthController 创建认证控制器
func NewAuthController(users service.UserService) *AuthController {
	return &AuthController{users: users}
}

// Register 注册新用户
func (c *AuthController) Register(ctx *gin.Context) {
	var input service.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := c.users.Register(ctx.Request.Context(), input)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Created(ctx, result)
}

// Login 登录
func (c *AuthController) Login(ctx *gin.Context) {
	var input service.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := c.users.Login(ctx.Request.Context(), input)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, result)
}
