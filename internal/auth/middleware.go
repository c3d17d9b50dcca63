package auth

import (
	"net/http"
	"strings"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证中间件
// 校验 Bearer 令牌,解析角色为封闭枚举,失败显式 401 而不是
// 落到未知角色
func AuthMiddleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "missing authorization header",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "invalid authorization format",
			})
			c.Abort()
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "invalid token",
				"detail":  err.Error(),
			})
			c.Abort()
			return
		}

		role, err := lifecycle.ParseRole(claims.Role)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "invalid role claim",
			})
			c.Abort()
			return
		}

		// 将认证主体存储到上下文
		c.Set("user_id", claims.UserID)
		c.Set("name", claims.Name)
		c.Set("role", string(role))

		c.Next()
	}
}

// CurrentActor 从上下文取出认证主体
func CurrentActor(c *gin.Context) (lifecycle.Actor, bool) {
	userID := c.GetString("user_id")
	role, err := lifecycle.ParseRole(c.GetString("role"))
	if userID == "" || err != nil {
		return lifecycle.Actor{}, false
	}
	return lifecycle.Actor{ID: userID, Role: role}, true
}

// RoleMiddleware 角色中间件,限制路由只允许指定角色访问
func RoleMiddleware(allowed ...lifecycle.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "role not found in context",
			})
			c.Abort()
			return
		}

		for _, role := range allowed {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "you do not have permission to access this resource",
		})
		c.Abort()
	}
}
