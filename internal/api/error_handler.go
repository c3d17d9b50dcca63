package api

import (
	"errors"
	"net/http"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/gin-gonic/gin"
)

// statusForKind 将错误类别映射为 HTTP 状态码
func statusForKind(kind lifecycle.Kind) int {
	switch kind {
	case lifecycle.KindValidation:
		return http.StatusBadRequest
	case lifecycle.KindForbidden:
		return http.StatusForbidden
	case lifecycle.KindNotFound:
		return http.StatusNotFound
	case lifecycle.KindConflict:
		return http.StatusConflict
	case lifecycle.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleError 将服务层错误转换为错误响应
// 凭证错误单独映射为 401,其余按错误类别映射
func HandleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		Error(c, http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
		return
	}

	var le *lifecycle.Error
	if errors.As(err, &le) {
		Error(c, statusForKind(le.Kind), le.Message, le.Code)
		return
	}

	Error(c, http.StatusInternalServerError, "internal server error", err.Error())
}
