package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

func TestConfigValidate(t *testing.T) {
	valid := testConfig()
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{"工作时段颠倒", func(cfg *Config) { cfg.WorkStartHour = 20; cfg.WorkEndHour = 8 }},
		{"工作开始时间为负", func(cfg *Config) { cfg.WorkStartHour = -1 }},
		{"工作结束时间超过 24", func(cfg *Config) { cfg.WorkEndHour = 25 }},
		{"午休时长为零", func(cfg *Config) { cfg.LunchDuration = 0 }},
		{"短休息时长为零", func(cfg *Config) { cfg.BreakDuration = 0 }},
		{"工作在午休之后才开始", func(cfg *Config) { cfg.WorkStartHour = 13 }},
		{"午休超出工作结束时间", func(cfg *Config) { cfg.WorkEndHour = 12 }},
		{"种群大小为零", func(cfg *Config) { cfg.PopulationSize = 0 }},
		{"迭代代数为零", func(cfg *Config) { cfg.Generations = 0 }},
		{"变异概率大于一", func(cfg *Config) { cfg.MutationRate = 1.5 }},
		{"变异概率为负", func(cfg *Config) { cfg.MutationRate = -0.1 }},
		{"精英数量不小于种群大小", func(cfg *Config) { cfg.EliteSize = cfg.PopulationSize }},
		{"锦标赛抽样数量为零", func(cfg *Config) { cfg.TournamentSize = 0 }},
		{"锦标赛抽样数量超过种群大小", func(cfg *Config) { cfg.TournamentSize = cfg.PopulationSize + 1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.modify(&cfg)

			_, err := New(cfg, 1)
			require.Error(t, err)
		})
	}
}

func TestOptimizeEmptyTasks(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	best, stats := s.Optimize(nil, testDate)

	// 空输入得到只有午休的日程
	require.Len(t, best.Slots, 1)
	require.Equal(t, SlotBreak, best.Slots[0].Kind)
	require.Equal(t, at(12, 0), best.Slots[0].Start)
	require.Equal(t, at(13, 0), best.Slots[0].End)

	// 所有个体都一样，每一代的最优和平均适应度都是 10
	require.Len(t, stats, testConfig().Generations)
	for _, st := range stats {
		require.InDelta(t, 10.0, st.BestFitness, 1e-9)
		require.InDelta(t, 10.0, st.MeanFitness, 1e-9)
	}
}

func TestOptimizeSingleTaskStartsAtWorkStart(t *testing.T) {
	task := newTestTask("唯一的任务", 60, 5)

	s := newTestScheduler(t, testConfig(), 3)
	best, _ := s.Optimize([]*domain.Task{task}, testDate)

	require.Equal(t, SlotTask, best.Slots[0].Kind)
	require.Equal(t, task.ID, best.Slots[0].Task.ID)
	require.Equal(t, at(8, 0), best.Slots[0].Start)
	require.Equal(t, at(9, 0), best.Slots[0].End)

	requireValidCandidate(t, best, testConfig())
}

func TestOptimizePrefersMeetingDeadline(t *testing.T) {
	deadline := at(10, 0)

	urgent := newTestTask("提交合同", 60, 3)
	urgent.Deadline = &deadline
	flexible := newTestTask("整理资料", 60, 3)

	s := newTestScheduler(t, testConfig(), 7)
	best, _ := s.Optimize([]*domain.Task{urgent, flexible}, testDate)

	// 只有排在第一位才赶得上 10:00 的截止时间
	require.Equal(t, SlotTask, best.Slots[0].Kind)
	require.Equal(t, urgent.ID, best.Slots[0].Task.ID)
	require.Equal(t, at(8, 0), best.Slots[0].Start)

	requireValidCandidate(t, best, testConfig())
}

func TestOptimizeDeterminism(t *testing.T) {
	tasks := []*domain.Task{
		newTestTask("需求评审", 60, 5),
		newTestTask("写代码", 120, 4),
		newTestTask("回复邮件", 30, 2),
		newTestTask("整理文档", 45, 3),
	}

	s1 := newTestScheduler(t, testConfig(), 2026)
	s2 := newTestScheduler(t, testConfig(), 2026)

	best1, stats1 := s1.Optimize(tasks, testDate)
	best2, stats2 := s2.Optimize(tasks, testDate)

	// 相同的种子和输入必须得到完全相同的结果
	require.Equal(t, best1.ScheduleSlots(), best2.ScheduleSlots())
	require.Equal(t, stats1, stats2)
}

func TestOptimizeBestFitnessNeverDecreases(t *testing.T) {
	deadline := at(15, 0)

	tasks := []*domain.Task{
		newTestTask("需求评审", 60, 5),
		newTestTask("写代码", 120, 4),
		newTestTask("修复缺陷", 90, 4),
		newTestTask("回复邮件", 30, 2),
		newTestTask("整理文档", 45, 3),
	}
	tasks[1].Deadline = &deadline
	tasks[3].PreferredTime = domain.PreferredTimeAfternoon

	s := newTestScheduler(t, testConfig(), 99)
	_, stats := s.Optimize(tasks, testDate)

	require.Len(t, stats, testConfig().Generations)

	// 有精英保留时，每一代的最优适应度不会下降
	for i := 1; i < len(stats); i++ {
		require.GreaterOrEqual(t, stats[i].BestFitness, stats[i-1].BestFitness)
		require.LessOrEqual(t, stats[i].MeanFitness, stats[i].BestFitness+1e-9)
	}
}

func TestRescheduleCarriesUnfinishedWithHigherPriority(t *testing.T) {
	done := newTestTask("已完成的任务", 60, 3)
	done.Completed = true
	unfinished := newTestTask("没做完的任务", 60, 3)

	s := newTestScheduler(t, testConfig(), 11)
	current := s.placeTasks([]*domain.Task{done, unfinished}, testDate)

	fresh := newTestTask("新任务", 60, 2)
	nextDay := testDate.AddDate(0, 0, 1)

	best, stats := s.RescheduleUnfinished(current, []*domain.Task{fresh}, nextDay)
	require.Len(t, stats, testConfig().Generations)

	priorities := make(map[string]int32)
	for _, task := range best.ScheduledTasks() {
		priorities[task.ID] = task.Priority
	}

	// 已完成的任务不会被带到新的一天
	require.NotContains(t, priorities, done.ID)

	// 未完成的任务被带过来并且优先级加一，新任务保持原优先级
	require.Equal(t, int32(4), priorities[unfinished.ID])
	require.Equal(t, int32(2), priorities[fresh.ID])

	// 原任务的优先级不受影响
	require.Equal(t, int32(3), unfinished.Priority)

	// 被带过来的任务优先级更高，应该被排在最前面
	require.Equal(t, unfinished.ID, best.Slots[0].Task.ID)

	// 新日程落在新的一天
	for _, slot := range best.Slots {
		require.Equal(t, nextDay.Day(), slot.Start.Day())
	}
}

func TestRescheduleCapsPriorityAtFive(t *testing.T) {
	top := newTestTask("顶级优先级的任务", 60, 5)

	s := newTestScheduler(t, testConfig(), 11)
	current := s.placeTasks([]*domain.Task{top}, testDate)

	best, _ := s.RescheduleUnfinished(current, nil, testDate.AddDate(0, 0, 1))

	tasks := best.ScheduledTasks()
	require.Len(t, tasks, 1)
	require.Equal(t, int32(5), tasks[0].Priority)
}
