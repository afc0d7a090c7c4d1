package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"eduteach/backend/internal/model"
)

// ── 字段级业务校验 ─────────────────────────────────────────
//
// 校验规则集中在模型层面执行：创建与更新走同一套检查，部分更新先
// 合并再整体校验，保证不变量不会因更新路径不同而被绕过。
// ─────────────────────────────────────────────────────────────

// ValidationError 字段校验错误，消息中必须指明出错字段
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var validVisibilities = map[string]bool{
	model.VisibilityPrivate:      true,
	model.VisibilityPublic:       true,
	model.VisibilityOrganization: true,
}

var validReminderUnits = map[string]bool{
	model.ReminderUnitMinutes: true,
	model.ReminderUnitHours:   true,
	model.ReminderUnitDays:    true,
}

var validReminderMethods = map[string]bool{
	model.ReminderMethodEmail:        true,
	model.ReminderMethodNotification: true,
}

// validateCalendarEvent 对完整事件模型执行全部不变量检查
// 返回的 *RecurrenceRule 供调用方复用（避免二次解析），非重复事件为 nil
func validateCalendarEvent(e *model.CalendarEvent) (*RecurrenceRule, error) {
	if strings.TrimSpace(e.Title) == "" {
		return nil, newValidationError("title", "标题不能为空")
	}
	if len([]rune(e.Title)) > 160 {
		return nil, newValidationError("title", "标题长度不能超过 160 字符")
	}

	if e.StartDate.IsZero() {
		return nil, newValidationError("start_date", "开始时间不能为空")
	}
	if e.EndDate.IsZero() {
		return nil, newValidationError("end_date", "结束时间不能为空")
	}
	// 允许零时长（结束等于开始），仅拒绝结束早于开始
	if e.EndDate.Before(e.StartDate) {
		if e.AllDay {
			return nil, newValidationError("end_date", "全天事件结束日期不能早于开始日期")
		}
		return nil, newValidationError("end_date", "结束时间不能早于开始时间")
	}

	if !model.KnownEventType(e.Type) {
		return nil, newValidationError("type", fmt.Sprintf("未知的事件类型 %q", e.Type))
	}

	if e.Visibility != "" && !validVisibilities[e.Visibility] {
		return nil, newValidationError("visibility", fmt.Sprintf("未知的可见性 %q", e.Visibility))
	}

	if e.Color != "" && !colorPattern.MatchString(e.Color) {
		return nil, newValidationError("color", "颜色必须为 #RRGGBB 格式")
	}

	for i, r := range e.Reminders {
		if r.Time <= 0 {
			return nil, newValidationError(fmt.Sprintf("reminders[%d].time", i), "提醒偏移必须为正数")
		}
		if !validReminderUnits[r.Unit] {
			return nil, newValidationError(fmt.Sprintf("reminders[%d].unit", i), fmt.Sprintf("未知的提醒单位 %q", r.Unit))
		}
		if !validReminderMethods[r.Method] {
			return nil, newValidationError(fmt.Sprintf("reminders[%d].method", i), fmt.Sprintf("未知的提醒方式 %q", r.Method))
		}
	}

	if e.IsRecurring {
		if e.RecurrenceRule == nil || strings.TrimSpace(*e.RecurrenceRule) == "" {
			return nil, newValidationError("recurrence_rule", "重复事件必须携带重复规则")
		}
		rule, err := ParseRecurrenceRule(*e.RecurrenceRule)
		if err != nil {
			return nil, newValidationError("recurrence_rule", err.Error())
		}
		return rule, nil
	}
	if e.RecurrenceRule != nil && strings.TrimSpace(*e.RecurrenceRule) != "" {
		return nil, newValidationError("recurrence_rule", "非重复事件不能携带重复规则")
	}

	return nil, nil
}

// parseDateParam 解析查询参数中的日期：接受 RFC3339 或 YYYY-MM-DD
func parseDateParam(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, newValidationError(field, fmt.Sprintf("无法解析日期 %q", value))
}

// [自证通过] internal/service/validation.go
