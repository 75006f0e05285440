package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

// ParsedTask 是从一段自然语言描述中提取出来的任务信息
type ParsedTask struct {
	Name          string               `json:"name"`
	Duration      int32                `json:"duration"` // 单位为分钟
	Priority      int32                `json:"priority"`
	Deadline      *time.Time           `json:"deadline,omitempty"`
	PreferredTime domain.PreferredTime `json:"preferredTime,omitempty"`
	IsBreak       bool                 `json:"isBreak"`
	RawInput      string               `json:"rawInput"`
}

// Parser 基于关键词和正则规则解析任务描述，支持中英文混合输入
type Parser struct {
	now func() time.Time
}

func New() *Parser {
	return &Parser{now: time.Now}
}

// 时长规则按顺序匹配，先命中的生效
var durationRules = []struct {
	re      *regexp.Regexp
	minutes func(m []string) int
}{
	{regexp.MustCompile(`(\d+)\s*(?:hours?|hrs?)`), func(m []string) int { return atoi(m[1]) * 60 }},
	{regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?)`), func(m []string) int { return atoi(m[1]) }},
	{regexp.MustCompile(`(\d+)\s*h(?:ours?)?\s*(\d+)\s*m(?:ins?)?`), func(m []string) int { return atoi(m[1])*60 + atoi(m[2]) }},
	{regexp.MustCompile(`(\d+):(\d+)`), func(m []string) int { return atoi(m[1])*60 + atoi(m[2]) }},
	{regexp.MustCompile(`(\d+)\s*小时\s*(\d+)\s*分钟`), func(m []string) int { return atoi(m[1])*60 + atoi(m[2]) }},
	{regexp.MustCompile(`(\d+)\s*小时`), func(m []string) int { return atoi(m[1]) * 60 }},
	{regexp.MustCompile(`(\d+)\s*分钟`), func(m []string) int { return atoi(m[1]) }},
}

// 没写时长时按任务类别给默认值
var categoryDurations = []struct {
	minutes  int32
	keywords []string
}{
	{60, []string{"meeting", "call", "会议", "开会", "电话"}},
	{30, []string{"review", "read", "审阅", "阅读"}},
	{15, []string{"quick", "brief", "快速", "简短"}},
}

const defaultDuration = 45

// 优先级规则从高到低匹配，先命中的生效
var priorityRules = []struct {
	level    int32
	keywords []string
}{
	{5, []string{"urgent", "critical", "asap", "immediately", "emergency", "紧急", "立刻", "马上"}},
	{4, []string{"important", "high priority", "soon", "重要", "尽快"}},
	{3, []string{"normal", "regular", "medium", "一般"}},
	{2, []string{"low priority", "when possible", "eventually", "不急", "有空"}},
	{1, []string{"someday", "maybe", "optional", "随便"}},
}

const defaultPriority = 3

var weekdayNames = [][]string{
	{"monday", "周一", "星期一"},
	{"tuesday", "周二", "星期二"},
	{"wednesday", "周三", "星期三"},
	{"thursday", "周四", "星期四"},
	{"friday", "周五", "星期五"},
	{"saturday", "周六", "星期六"},
	{"sunday", "周日", "星期日"},
}

var preferredTimeRules = []struct {
	preferred domain.PreferredTime
	keywords  []string
}{
	{domain.PreferredTimeMorning, []string{"morning", "early", "before noon", "上午", "早上", "早晨"}},
	{domain.PreferredTimeAfternoon, []string{"afternoon", "after lunch", "midday", "下午", "中午"}},
	{domain.PreferredTimeEvening, []string{"evening", "night", "late", "after work", "晚上", "傍晚", "夜里"}},
}

// 短的英文关键词必须按整词匹配，否则 meeting 会命中 eat
var breakWordRe = regexp.MustCompile(`\b(?:lunch|break|rest|meal|eat|coffee|tea)\b`)

var breakChineseKeywords = []string{"午饭", "午餐", "休息", "吃饭", "咖啡", "喝茶"}

var (
	clockDeadlineRe = regexp.MustCompile(`(?:by|before|until)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	clockAmPmRe     = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
	spaceRe         = regexp.MustCompile(`\s+`)
	splitRe         = regexp.MustCompile(`[,;，；]|\sand\s`)
)

// 提取任务名时要去掉的短语
var nameStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`for\s+\d+\s*(?:hours?|hrs?|minutes?|mins?)`),
	regexp.MustCompile(`\d+\s*h(?:ours?)?\s*\d+\s*m(?:ins?)?`),
	regexp.MustCompile(`\d+\s*(?:hours?|hrs?|minutes?|mins?)`),
	regexp.MustCompile(`(?:by|before|until)\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?`),
	regexp.MustCompile(`\d{1,2}(?::\d{2})?\s*(?:am|pm)`),
	regexp.MustCompile(`\d+:\d+`),
	regexp.MustCompile(`\d+\s*小时(?:\s*\d+\s*分钟)?`),
	regexp.MustCompile(`\d+\s*分钟`),
}

var nameStripKeywords = []string{
	"next week", "tomorrow", "tonight", "today",
	"urgent", "critical", "asap", "immediately", "emergency",
	"important", "high priority", "low priority", "when possible",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"in the morning", "in the afternoon", "in the evening",
	"this morning", "this afternoon", "this evening",
	"morning", "afternoon", "evening",
	"下周", "明天", "今晚", "今天", "紧急", "重要", "尽快",
	"周一", "周二", "周三", "周四", "周五", "周六", "周日",
	"上午", "下午", "晚上",
}

var trailingFillers = []string{"at", "in", "on", "by", "for", "until", "before", "the", "a", "an"}

// ParseTasks 解析一段可能包含多个任务的描述
// 用逗号、分号或者英文 and 分隔多个任务
func (p *Parser) ParseTasks(text string) []*ParsedTask {
	parts := splitRe.Split(text, -1)

	tasks := make([]*ParsedTask, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tasks = append(tasks, p.ParseTask(part))
	}

	return tasks
}

// ParseTask 解析单个任务描述
func (p *Parser) ParseTask(text string) *ParsedTask {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(raw)

	return &ParsedTask{
		Name:          extractName(lower, raw),
		Duration:      extractDuration(lower),
		Priority:      extractPriority(lower),
		Deadline:      p.extractDeadline(lower),
		PreferredTime: extractPreferredTime(lower),
		IsBreak:       detectBreak(lower),
		RawInput:      raw,
	}
}

func extractDuration(text string) int32 {
	// 先去掉表示时刻的钟点，防止 3:30pm 这样的截止时间被当成时长
	text = clockDeadlineRe.ReplaceAllString(text, " ")
	text = clockAmPmRe.ReplaceAllString(text, " ")

	for _, rule := range durationRules {
		if m := rule.re.FindStringSubmatch(text); m != nil {
			return int32(rule.minutes(m))
		}
	}

	for _, rule := range categoryDurations {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.minutes
			}
		}
	}

	return defaultDuration
}

func extractPriority(text string) int32 {
	for _, rule := range priorityRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.level
			}
		}
	}

	return defaultPriority
}

func (p *Parser) extractDeadline(text string) *time.Time {
	now := p.now()

	endOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
	}

	// 相对日期
	switch {
	case strings.Contains(text, "tomorrow") || strings.Contains(text, "明天"):
		deadline := endOfDay(now.AddDate(0, 0, 1))
		return &deadline
	case strings.Contains(text, "tonight") || strings.Contains(text, "today") ||
		strings.Contains(text, "今晚") || strings.Contains(text, "今天"):
		deadline := endOfDay(now)
		return &deadline
	case strings.Contains(text, "next week") || strings.Contains(text, "下周"):
		deadline := endOfDay(now.AddDate(0, 0, 7))
		return &deadline
	}

	// 工作日名称，取接下来第一个同名的日子，时刻保持当前时间
	// time.Weekday 以周日为 0，这里按周一为 0 计算
	weekday := (int(now.Weekday()) + 6) % 7
	for i, names := range weekdayNames {
		for _, name := range names {
			if !strings.Contains(text, name) {
				continue
			}

			daysAhead := (i - weekday + 7) % 7
			if daysAhead == 0 {
				daysAhead = 7
			}

			deadline := now.AddDate(0, 0, daysAhead)
			return &deadline
		}
	}

	// by / before / until 加钟点，已经过去的时刻算明天的
	if m := clockDeadlineRe.FindStringSubmatch(text); m != nil {
		hour := atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute = atoi(m[2])
		}

		switch m[3] {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}

		if hour > 23 || minute > 59 {
			return nil
		}

		deadline := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if deadline.Before(now) {
			deadline = deadline.AddDate(0, 0, 1)
		}
		return &deadline
	}

	return nil
}

func extractPreferredTime(text string) domain.PreferredTime {
	for _, rule := range preferredTimeRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.preferred
			}
		}
	}

	// 关键词没命中时，尝试从钟点推断
	if m := clockAmPmRe.FindStringSubmatch(text); m != nil {
		hour := atoi(m[1])

		switch m[3] {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}

		switch {
		case hour < 12:
			return domain.PreferredTimeMorning
		case hour < 17:
			return domain.PreferredTimeAfternoon
		default:
			return domain.PreferredTimeEvening
		}
	}

	return ""
}

func detectBreak(text string) bool {
	if breakWordRe.MatchString(text) {
		return true
	}

	for _, keyword := range breakChineseKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	return false
}

// extractName 去掉时长、截止时间、优先级这些修饰短语，剩下的就是任务名
// 剩得太少时退回到原始输入
func extractName(lower string, raw string) string {
	name := lower

	for _, re := range nameStripPatterns {
		name = re.ReplaceAllString(name, " ")
	}
	for _, keyword := range nameStripKeywords {
		name = strings.ReplaceAll(name, keyword, " ")
	}

	name = spaceRe.ReplaceAllString(name, " ")
	name = strings.Trim(name, " ,.!?;:-")

	// 去掉残留在结尾的介词
	for {
		trimmed := false
		for _, filler := range trailingFillers {
			if strings.HasSuffix(name, " "+filler) {
				name = strings.TrimSpace(strings.TrimSuffix(name, " "+filler))
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}

	if utf8.RuneCountInString(name) < 3 {
		runes := []rune(raw)
		if len(runes) > 50 {
			runes = runes[:50]
		}
		return string(runes)
	}

	return name
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
