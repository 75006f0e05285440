package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

// 2026-03-02 是周一
var testNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func testParser() *Parser {
	p := New()
	p.now = func() time.Time { return testNow }
	return p
}

func TestParseTaskDuration(t *testing.T) {
	cases := []struct {
		text    string
		minutes int32
	}{
		{"write report for 2 hours", 120},
		{"reply emails 30 mins", 30},
		{"pair programming 1h30m", 90},
		{"focus block 1:30", 90},
		{"写代码 2小时", 120},
		{"整理材料 1小时30分钟", 90},
		{"回复消息 20分钟", 20},
		{"team meeting", 60},
		{"quick sync", 15},
		{"review design doc", 30},
		{"organize desk", 45},
		// 截止时间里的钟点不能被当成时长
		{"submit report by 12:30", 45},
		{"client call before 3:30pm", 60},
	}

	p := testParser()
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			require.Equal(t, tc.minutes, p.ParseTask(tc.text).Duration)
		})
	}
}

func TestParseTaskPriority(t *testing.T) {
	cases := []struct {
		text     string
		priority int32
	}{
		{"fix login bug urgent", 5},
		{"马上处理线上告警", 5},
		{"important design review soon", 4},
		{"regular cleanup", 3},
		{"low priority refactor eventually", 2},
		{"maybe organize photos someday", 1},
		{"just a plain task", 3},
	}

	p := testParser()
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			require.Equal(t, tc.priority, p.ParseTask(tc.text).Priority)
		})
	}
}

func TestParseTaskDeadline(t *testing.T) {
	date := func(day int, hour int, minute int) *time.Time {
		d := time.Date(2026, time.March, day, hour, minute, 0, 0, time.UTC)
		return &d
	}

	cases := []struct {
		text     string
		deadline *time.Time
	}{
		{"finish slides tonight", date(2, 23, 59)},
		{"submit report today", date(2, 23, 59)},
		{"prepare demo tomorrow", date(3, 23, 59)},
		{"提交周报 下周", date(9, 23, 59)},
		// 当前是周一 9:30，周五是 4 天后，时刻保持当前时间
		{"review design doc by friday", date(6, 9, 30)},
		// 下一个周一是 7 天后
		{"plan sprint on monday", date(9, 9, 30)},
		{"send invoice by 5pm", date(2, 17, 0)},
		{"submit report by 12:30", date(2, 12, 30)},
		// 8am 已经过了，算明天的
		{"standup notes by 8am", date(3, 8, 0)},
		{"no deadline here", nil},
	}

	p := testParser()
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			deadline := p.ParseTask(tc.text).Deadline
			if tc.deadline == nil {
				require.Nil(t, deadline)
				return
			}
			require.NotNil(t, deadline)
			require.Equal(t, *tc.deadline, *deadline)
		})
	}
}

func TestParseTaskPreferredTime(t *testing.T) {
	cases := []struct {
		text      string
		preferred domain.PreferredTime
	}{
		{"gym in the morning", domain.PreferredTimeMorning},
		{"下午写代码", domain.PreferredTimeAfternoon},
		{"read a book in the evening", domain.PreferredTimeEvening},
		{"standup at 9am", domain.PreferredTimeMorning},
		{"client call at 3pm", domain.PreferredTimeAfternoon},
		{"dinner with team at 7pm", domain.PreferredTimeEvening},
		{"no preference here", ""},
	}

	p := testParser()
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			require.Equal(t, tc.preferred, p.ParseTask(tc.text).PreferredTime)
		})
	}
}

func TestParseTaskBreakDetection(t *testing.T) {
	p := testParser()

	require.True(t, p.ParseTask("lunch with team").IsBreak)
	require.True(t, p.ParseTask("coffee break").IsBreak)
	require.True(t, p.ParseTask("午饭1小时").IsBreak)

	// meeting 里包含 eat，但不是整词，不能算休息
	require.False(t, p.ParseTask("team meeting").IsBreak)
	require.False(t, p.ParseTask("restructure module").IsBreak)
}

func TestParseTaskName(t *testing.T) {
	cases := []struct {
		text string
		name string
	}{
		{"Write report for 2 hours urgent by 5pm", "write report"},
		{"review design doc by friday", "review design doc"},
		{"urgent call with client at 3pm", "call with client"},
		{"team meeting tomorrow morning", "team meeting"},
		{"提交周报 下周", "提交周报"},
		// 剩下的名字太短时退回到原始输入
		{"午饭1小时", "午饭1小时"},
	}

	p := testParser()
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			require.Equal(t, tc.name, p.ParseTask(tc.text).Name)
		})
	}
}

func TestParseTaskRawInput(t *testing.T) {
	p := testParser()

	task := p.ParseTask("  Write report for 2 hours  ")
	require.Equal(t, "Write report for 2 hours", task.RawInput)
}

func TestParseTasksSplitsMultipleTasks(t *testing.T) {
	p := testParser()

	tasks := p.ParseTasks("write code for 2 hours, review PR and coffee break")
	require.Len(t, tasks, 3)

	require.Equal(t, "write code", tasks[0].Name)
	require.Equal(t, int32(120), tasks[0].Duration)

	require.Equal(t, "review pr", tasks[1].Name)
	require.Equal(t, int32(30), tasks[1].Duration)

	require.True(t, tasks[2].IsBreak)
}

func TestParseTasksSingle(t *testing.T) {
	p := testParser()

	tasks := p.ParseTasks("just one task")
	require.Len(t, tasks, 1)
	require.Equal(t, "just one task", tasks[0].Name)
}
