package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

func validTask(id string) *domain.Task {
	return &domain.Task{
		ID:       id,
		Name:     "写周报",
		Duration: 60,
		Priority: 3,
	}
}

func TestValidateTasks(t *testing.T) {
	require.NoError(t, ValidateTasks(nil))
	require.NoError(t, ValidateTasks([]*domain.Task{validTask("a"), validTask("b")}))

	cases := []struct {
		name  string
		tasks func() []*domain.Task
	}{
		{"缺少 id", func() []*domain.Task {
			task := validTask("")
			return []*domain.Task{task}
		}},
		{"id 重复", func() []*domain.Task {
			return []*domain.Task{validTask("a"), validTask("a")}
		}},
		{"缺少名称", func() []*domain.Task {
			task := validTask("a")
			task.Name = ""
			return []*domain.Task{task}
		}},
		{"时长为零", func() []*domain.Task {
			task := validTask("a")
			task.Duration = 0
			return []*domain.Task{task}
		}},
		{"优先级越界", func() []*domain.Task {
			task := validTask("a")
			task.Priority = 6
			return []*domain.Task{task}
		}},
		{"偏好时段不合法", func() []*domain.Task {
			task := validTask("a")
			task.PreferredTime = "midnight"
			return []*domain.Task{task}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, ValidateTasks(tc.tasks()))
		})
	}
}

func TestValidatePreferences(t *testing.T) {
	require.NoError(t, ValidatePreferences(domain.DefaultPreferences(1)))

	cases := []struct {
		name   string
		modify func(p *domain.Preferences)
	}{
		{"工作时段颠倒", func(p *domain.Preferences) { p.WorkStartHour = 20; p.WorkEndHour = 8 }},
		{"工作结束时间超过 24", func(p *domain.Preferences) { p.WorkEndHour = 25 }},
		{"午休时长为零", func(p *domain.Preferences) { p.LunchDuration = 0 }},
		{"短休息时长为零", func(p *domain.Preferences) { p.BreakDuration = 0 }},
		{"工作在午休之后才开始", func(p *domain.Preferences) { p.WorkStartHour = 13 }},
		{"午休超出工作结束时间", func(p *domain.Preferences) { p.WorkEndHour = 12 }},
		{"主题不支持", func(p *domain.Preferences) { p.Theme = "blue" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := domain.DefaultPreferences(1)
			tc.modify(p)
			require.Error(t, ValidatePreferences(p))
		})
	}
}
