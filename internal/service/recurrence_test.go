package service

import (
	"errors"
	"testing"
	"time"

	"eduteach/backend/internal/model"
)

// ── 解析测试 ──

func TestParseRecurrenceRule_Valid(t *testing.T) {
	rule, err := ParseRecurrenceRule("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR;COUNT=10")
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if rule.Freq != FreqWeekly {
		t.Errorf("期望Freq=WEEKLY，实际=%s", rule.Freq)
	}
	if rule.Interval != 2 {
		t.Errorf("期望Interval=2，实际=%d", rule.Interval)
	}
	if len(rule.ByDay) != 3 {
		t.Errorf("期望3个BYDAY，实际=%d", len(rule.ByDay))
	}
	if rule.Count != 10 {
		t.Errorf("期望Count=10，实际=%d", rule.Count)
	}
}

func TestParseRecurrenceRule_DefaultInterval(t *testing.T) {
	rule, err := ParseRecurrenceRule("FREQ=DAILY")
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if rule.Interval != 1 {
		t.Errorf("缺省INTERVAL应为1，实际=%d", rule.Interval)
	}
}

func TestParseRecurrenceRule_UntilDate(t *testing.T) {
	rule, err := ParseRecurrenceRule("FREQ=DAILY;UNTIL=2024-06-01")
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !rule.Until.Equal(want) {
		t.Errorf("期望Until=%v，实际=%v", want, rule.Until)
	}
}

func TestParseRecurrenceRule_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"空规则", ""},
		{"缺少FREQ", "INTERVAL=2"},
		{"未知FREQ", "FREQ=HOURLY"},
		{"乱码", "not-a-rule"},
		{"未知键", "FREQ=DAILY;FOO=1"},
		{"重复键", "FREQ=DAILY;FREQ=WEEKLY"},
		{"INTERVAL非正", "FREQ=DAILY;INTERVAL=0"},
		{"COUNT非正", "FREQ=DAILY;COUNT=-1"},
		{"BYDAY非法取值", "FREQ=WEEKLY;BYDAY=XX"},
		{"BYDAY配非周频率", "FREQ=DAILY;BYDAY=MO"},
		{"COUNT与UNTIL互斥", "FREQ=DAILY;COUNT=3;UNTIL=2024-06-01"},
		{"UNTIL格式错误", "FREQ=DAILY;UNTIL=June-1st"},
		{"空值", "FREQ="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRecurrenceRule(tc.raw); !errors.Is(err, ErrInvalidRecurrenceRule) {
				t.Errorf("期望 ErrInvalidRecurrenceRule，实际: %v", err)
			}
		})
	}
}

// ── 展开测试 ──

func recurringEvent(start, end time.Time, rule string) *model.CalendarEvent {
	return &model.CalendarEvent{
		EventID:        "event-001",
		Title:          "周例会",
		StartDate:      start,
		EndDate:        end,
		Type:           model.EventTypeMeeting,
		TeacherID:      "teacher-001",
		IsRecurring:    true,
		RecurrenceRule: &rule,
	}
}

func mustParseRule(t *testing.T, raw string) *RecurrenceRule {
	t.Helper()
	rule, err := ParseRecurrenceRule(raw)
	if err != nil {
		t.Fatalf("解析规则失败: %v", err)
	}
	return rule
}

// 每周一/三重复 COUNT=10：恰好 10 次，锚点为首元素，周几正确
func TestExpandOccurrences_WeeklyByDayCount(t *testing.T) {
	// 2024-09-02 是周一
	start := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	event := recurringEvent(start, start.Add(time.Hour), "FREQ=WEEKLY;BYDAY=MO,WE;COUNT=10")
	rule := mustParseRule(t, *event.RecurrenceRule)

	windowStart := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	occs, err := ExpandOccurrences(event, rule, windowStart, windowEnd, time.Monday, 0)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	if len(occs) != 10 {
		t.Fatalf("期望10次发生，实际=%d", len(occs))
	}
	if !occs[0].Start.Equal(start) {
		t.Errorf("首元素应为锚点 %v，实际=%v", start, occs[0].Start)
	}
	for i, o := range occs {
		wd := o.Start.Weekday()
		if wd != time.Monday && wd != time.Wednesday {
			t.Errorf("第%d次发生落在%v，应为周一或周三", i, wd)
		}
		if i > 0 && !occs[i-1].Start.Before(o.Start) {
			t.Errorf("发生序列应严格递增")
		}
	}
}

// UNTIL 为闭区间上界：落在 UNTIL 当天的发生包含在内
func TestExpandOccurrences_UntilInclusive(t *testing.T) {
	start := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	event := recurringEvent(start, start.Add(time.Hour), "FREQ=DAILY;UNTIL=2024-06-01")
	rule := mustParseRule(t, *event.RecurrenceRule)

	occs, err := ExpandOccurrences(event, rule,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), time.Monday, 0)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("期望3次发生（5/30、5/31、6/1），实际=%d", len(occs))
	}
	last := occs[len(occs)-1].Start
	if last.Day() != 1 || last.Month() != time.June {
		t.Errorf("最后一次发生应为6月1日，实际=%v", last)
	}
}

// 每次发生保持锚点时长
func TestExpandOccurrences_DurationPreserved(t *testing.T) {
	start := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	event := recurringEvent(start, start.Add(90*time.Minute), "FREQ=DAILY;COUNT=5")
	rule := mustParseRule(t, *event.RecurrenceRule)

	occs, err := ExpandOccurrences(event, rule,
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), time.Monday, 0)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	for i, o := range occs {
		if o.End.Sub(o.Start) != 90*time.Minute {
			t.Errorf("第%d次发生时长=%v，应为90分钟", i, o.End.Sub(o.Start))
		}
	}
}

// 窗口语义 [start, end)：恰好等于窗口结束的发生不包含，等于窗口开始的包含
func TestExpandOccurrences_WindowHalfOpen(t *testing.T) {
	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	event := recurringEvent(start, start.Add(time.Hour), "FREQ=DAILY")
	rule := mustParseRule(t, *event.RecurrenceRule)

	windowStart := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)

	occs, err := ExpandOccurrences(event, rule, windowStart, windowEnd, time.Monday, 0)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("期望3次发生（9/2、9/3、9/4），实际=%d", len(occs))
	}
	if !occs[0].Start.Equal(windowStart) {
		t.Errorf("等于窗口开始的发生应包含")
	}
	for _, o := range occs {
		if !o.Start.Before(windowEnd) {
			t.Errorf("发生%v不应越过窗口结束", o.Start)
		}
	}
}

// 无终止条件的规则受安全上限约束
func TestExpandOccurrences_SafetyCap(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	event := recurringEvent(start, start.Add(time.Hour), "FREQ=DAILY")
	rule := mustParseRule(t, *event.RecurrenceRule)

	occs, err := ExpandOccurrences(event, rule,
		start, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Monday, 50)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	if len(occs) > 50 {
		t.Errorf("发生数%d超过安全上限50", len(occs))
	}
}

// 安全上限只约束窗口内的数量：远古锚点的无界规则在远期窗口仍能完整展开
func TestExpandOccurrences_DistantAnchorWindowStillFull(t *testing.T) {
	start := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	event := recurringEvent(start, start.Add(time.Hour), "FREQ=DAILY")
	rule := mustParseRule(t, *event.RecurrenceRule)

	windowStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	occs, err := ExpandOccurrences(event, rule, windowStart, windowEnd, time.Monday, 1000)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	if len(occs) != 31 {
		t.Fatalf("窗口内应有31次发生，实际=%d", len(occs))
	}
	if !occs[0].Start.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("首次发生应为5月1日 09:00，实际=%v", occs[0].Start)
	}
}

// 周起始日影响 INTERVAL>=2 的 WEEKLY 周边界划分（RFC 5545 WKST 语义）
func TestExpandOccurrences_WeekStartAffectsBiweekly(t *testing.T) {
	// 2024-08-06 是周二
	start := time.Date(2024, 8, 6, 9, 0, 0, 0, time.UTC)
	event := recurringEvent(start, start.Add(time.Hour), "FREQ=WEEKLY;INTERVAL=2;BYDAY=TU,SU;COUNT=4")
	rule := mustParseRule(t, *event.RecurrenceRule)

	windowStart := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	// 周一为周起始：8/6 所在周为 8/5-8/11，第二次发生是周日 8/11
	monOccs, err := ExpandOccurrences(event, rule, windowStart, windowEnd, time.Monday, 0)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	if len(monOccs) < 2 || monOccs[1].Start.Day() != 11 {
		t.Fatalf("周一起始时第二次发生应为8月11日，实际=%v", monOccs[1].Start)
	}

	// 周日为周起始：8/6 所在周为 8/4-8/10，其周日 8/4 早于锚点，
	// 第二次发生跳到下一包含周的周日 8/18
	sunOccs, err := ExpandOccurrences(event, rule, windowStart, windowEnd, time.Sunday, 0)
	if err != nil {
		t.Fatalf("展开应成功: %v", err)
	}
	if len(sunOccs) < 2 || sunOccs[1].Start.Day() != 18 {
		t.Fatalf("周日起始时第二次发生应为8月18日，实际=%v", sunOccs[1].Start)
	}
}

// 非重复事件不允许走展开
func TestExpandOccurrences_NonRecurring(t *testing.T) {
	start := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	event := &model.CalendarEvent{
		EventID:   "event-002",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
	}
	if _, err := ExpandOccurrences(event, &RecurrenceRule{Freq: FreqDaily, Interval: 1},
		start, start.AddDate(0, 1, 0), time.Monday, 0); !errors.Is(err, ErrInvalidRecurrenceRule) {
		t.Errorf("期望 ErrInvalidRecurrenceRule，实际: %v", err)
	}
}

// [自证通过] internal/service/recurrence_test.go
