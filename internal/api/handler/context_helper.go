package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lodymel/heartpass/internal/api/middleware"
	"github.com/lodymel/heartpass/internal/lifecycle"
	"github.com/lodymel/heartpass/pkg/jwt"
	"github.com/lodymel/heartpass/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.ContextUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetActor 提取当前会话身份（user_id + email）
func MustGetActor(c *gin.Context) (lifecycle.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return lifecycle.Actor{}, false
	}
	return lifecycle.Actor{
		UserID: userID,
		Email:  c.GetString(middleware.ContextEmail),
	}, true
}

// GetClaims 提取已校验的 Access Token 声明，不存在时返回 nil
func GetClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get(middleware.ContextClaims)
	if !exists {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// bindJSON 绑定并校验请求体，失败时写入 400 / 413
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "validation failed", err.Error())
		return false
	}
	return true
}

// respondInternal 持久化或下游失败：超时返回 503，其余 500，均由用户决定是否重试
func respondInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, context.DeadlineExceeded) {
		response.Error(c, http.StatusServiceUnavailable, 50001, "service is busy, please try again")
		return
	}
	response.InternalError(c)
}
