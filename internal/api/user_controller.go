package api

import (
	"net/http"

	"github.com/Teja20002/EZY-Management/internal/auth"
	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/gin-gonic/gin"
)

// UserController 用户目录控制器
type UserController struct {
	users service.UserService
}

// NewUserController 创建用户目录控制器
func NewUserController(users service.UserService) *UserController {
	return &UserController{users: users}
}

// Me 返回当前认证用户
func (c *UserController) Me(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	user, err := c.users.Me(ctx.Request.Context(), actor)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, user)
}

// List 按角色查询用户,用于指派人选择列表
func (c *UserController) List(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	role := ctx.Query("role")
	if role == "" {
		Error(ctx, http.StatusBadRequest, "role query parameter is required", "")
		return
	}

	users, err := c.users.ByRole(ctx.Request.Context(), actor, role)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, users)
}

// updateRoleRequest 角色变更请求体
type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole 变更用户角色,只有 owner 可以执行
func (c *UserController) UpdateRole(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var req updateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := c.users.UpdateRole(ctx.Request.Context(), actor, ctx.Param("id"), req.Role)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, user)
}
