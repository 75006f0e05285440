package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

var testDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		WorkStartHour:  8,
		WorkEndHour:    20,
		LunchDuration:  60,
		BreakDuration:  15,
		PopulationSize: 30,
		Generations:    15,
		MutationRate:   0.1,
		EliteSize:      6,
		TournamentSize: 3,
	}
}

func newTestScheduler(t *testing.T, cfg Config, seed int64) *Scheduler {
	t.Helper()

	s, err := New(cfg, seed)
	require.NoError(t, err)

	return s
}

func newTestTask(name string, duration int32, priority int32) *domain.Task {
	return &domain.Task{
		ID:       uuid.NewString(),
		Name:     name,
		Duration: duration,
		Priority: priority,
	}
}

func at(hour int, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

// requireValidCandidate 检查候选日程的硬性约束:
// 时间段按开始时间升序且互不重叠，全部落在工作时段内，
// 午休时段恰好出现一次，任务不会重复出现
func requireValidCandidate(t *testing.T, c *Candidate, cfg Config) {
	t.Helper()

	workStart := hourOnDate(testDate, cfg.WorkStartHour)
	workEnd := hourOnDate(testDate, cfg.WorkEndHour)
	lunchStart := hourOnDate(testDate, lunchHour)
	lunchDuration := time.Duration(cfg.LunchDuration) * time.Minute

	lunchCount := 0
	seen := make(map[string]bool)

	for i, slot := range c.Slots {
		require.True(t, slot.End.After(slot.Start))
		require.False(t, slot.Start.Before(workStart))
		require.False(t, slot.End.After(workEnd))

		if i > 0 {
			require.False(t, slot.Start.Before(c.Slots[i-1].End))
		}

		switch slot.Kind {
		case SlotTask:
			require.NotNil(t, slot.Task)
			require.False(t, seen[slot.Task.ID])
			seen[slot.Task.ID] = true
		case SlotBreak:
			require.Nil(t, slot.Task)
			if slot.Start.Equal(lunchStart) && slot.End.Sub(slot.Start) == lunchDuration {
				lunchCount++
			}
		}
	}

	require.Equal(t, 1, lunchCount)
}

func TestPlaceTasksEmptyInput(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	c := s.placeTasks(nil, testDate)

	// 没有任务时日程里也要有午休
	require.Len(t, c.Slots, 1)
	require.Equal(t, SlotBreak, c.Slots[0].Kind)
	require.Equal(t, at(12, 0), c.Slots[0].Start)
	require.Equal(t, at(13, 0), c.Slots[0].End)
}

func TestPlaceTasksAvoidsLunchWindow(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	long := newTestTask("写设计文档", 230, 3)
	short := newTestTask("回复邮件", 30, 3)

	c := s.placeTasks([]*domain.Task{long, short}, testDate)

	require.Len(t, c.Slots, 4)

	// 8:00 ~ 11:50 第一个任务，任务后的短休息会和午休重叠，所以被省掉了
	require.Equal(t, at(8, 0), c.Slots[0].Start)
	require.Equal(t, at(11, 50), c.Slots[0].End)
	require.Equal(t, long.ID, c.Slots[0].Task.ID)

	// 12:00 ~ 13:00 午休
	require.Equal(t, SlotBreak, c.Slots[1].Kind)
	require.Equal(t, at(12, 0), c.Slots[1].Start)
	require.Equal(t, at(13, 0), c.Slots[1].End)

	// 第二个任务放不进 11:50 ~ 12:00 的空隙，被推迟到午休之后
	require.Equal(t, at(13, 0), c.Slots[2].Start)
	require.Equal(t, at(13, 30), c.Slots[2].End)
	require.Equal(t, short.ID, c.Slots[2].Task.ID)

	// 13:30 ~ 13:45 任务后的短休息
	require.Equal(t, SlotBreak, c.Slots[3].Kind)
	require.Equal(t, at(13, 30), c.Slots[3].Start)
	require.Equal(t, at(13, 45), c.Slots[3].End)

	requireValidCandidate(t, c, testConfig())
}

func TestPlaceTasksFillsGapBeforeLunch(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	long := newTestTask("整理周报", 230, 3)
	tiny := newTestTask("打卡", 10, 3)

	c := s.placeTasks([]*domain.Task{long, tiny}, testDate)

	// 10 分钟的任务恰好能填进 11:50 ~ 12:00 的空隙
	require.Len(t, c.Slots, 3)
	require.Equal(t, at(11, 50), c.Slots[1].Start)
	require.Equal(t, at(12, 0), c.Slots[1].End)
	require.Equal(t, tiny.ID, c.Slots[1].Task.ID)
}

func TestPlaceTasksSkipsTasksBeyondWorkEnd(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	first := newTestTask("集中开发", 390, 3)
	second := newTestTask("长会", 120, 3)

	c := s.placeTasks([]*domain.Task{first, second}, testDate)

	// 6 个半小时的任务和午休重叠，被推迟到 13:00 ~ 19:30，
	// 剩下的时间已经放不下两个小时的会了
	scheduled := c.ScheduledTasks()
	require.Len(t, scheduled, 1)
	require.Equal(t, first.ID, scheduled[0].ID)
	require.Equal(t, at(13, 0), c.Slots[1].Start)
	require.Equal(t, at(19, 30), c.Slots[1].End)

	requireValidCandidate(t, c, testConfig())
}

func TestRandomCandidateInvariants(t *testing.T) {
	cfg := testConfig()
	s := newTestScheduler(t, cfg, 42)

	tasks := []*domain.Task{
		newTestTask("需求评审", 60, 5),
		newTestTask("写代码", 120, 4),
		newTestTask("修复缺陷", 90, 4),
		newTestTask("回复邮件", 30, 2),
		newTestTask("整理文档", 45, 3),
		newTestTask("代码评审", 30, 4),
	}

	for i := 0; i < 50; i++ {
		requireValidCandidate(t, s.randomCandidate(tasks, testDate), cfg)
	}
}

func TestFitnessLunchOnly(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	c := s.placeTasks(nil, testDate)

	// 只有午休: 没有任务得分也没有惩罚，休息间隔只有一个，方差为 0，
	// 休息分布一项得满分 10
	require.InDelta(t, 10.0, s.Fitness(c, nil), 1e-9)
}

func TestFitnessSingleTask(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	task := newTestTask("写代码", 60, 5)
	c := s.placeTasks([]*domain.Task{task}, testDate)

	// 日程为 [8:00~9:00 任务] [9:00~9:15 短休息] [12:00~13:00 午休]
	// 优先级得分 5 * (1 - 0/3) * 10 = 50
	// 休息间隔为 1 小时和 2.75 小时，总体方差 0.765625
	expected := 50 + 10/(1+0.765625)
	require.InDelta(t, expected, s.Fitness(c, []*domain.Task{task}), 1e-9)
}

func TestFitnessDeadline(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	task := newTestTask("提交报告", 60, 3)
	tasks := []*domain.Task{task}

	c := s.placeTasks(tasks, testDate)
	base := s.Fitness(c, tasks)

	// 9:00 结束，恰好赶上截止时间也算赶上，加 20 分
	met := at(9, 0)
	task.Deadline = &met
	require.InDelta(t, base+20, s.Fitness(c, tasks), 1e-9)

	// 比 8:30 的截止时间晚半小时，按小时数扣 5 分
	missed := at(8, 30)
	task.Deadline = &missed
	require.InDelta(t, base-5, s.Fitness(c, tasks), 1e-9)
}

func TestFitnessPreferredTime(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	task := newTestTask("晨会", 30, 3)
	tasks := []*domain.Task{task}

	c := s.placeTasks(tasks, testDate)
	base := s.Fitness(c, tasks)

	// 8:00 开始的任务落在上午偏好时段内，加 5 分
	task.PreferredTime = domain.PreferredTimeMorning
	require.InDelta(t, base+5, s.Fitness(c, tasks), 1e-9)

	// 偏好晚上但被排在了早上，不加分
	task.PreferredTime = domain.PreferredTimeEvening
	require.InDelta(t, base, s.Fitness(c, tasks), 1e-9)
}

func TestFitnessUnscheduledPenalty(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	placed := newTestTask("写代码", 60, 3)
	missing := newTestTask("没排进去的任务", 60, 3)

	c := s.placeTasks([]*domain.Task{placed}, testDate)

	base := s.Fitness(c, []*domain.Task{placed})
	withMissing := s.Fitness(c, []*domain.Task{placed, missing})

	// 每个没有排进日程的任务扣 50 分
	require.InDelta(t, base-50, withMissing, 1e-9)
}

func TestMutateSwapsTwoTaskAssignments(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 1 // 随机数不可能大于 1，必然触发交换
	s := newTestScheduler(t, cfg, 7)

	a := newTestTask("任务一", 30, 3)
	b := newTestTask("任务二", 60, 3)
	c := s.placeTasks([]*domain.Task{a, b}, testDate)

	mutated := s.mutate(c)
	require.NotSame(t, c, mutated)

	// 时间边界保持不变
	require.Len(t, mutated.Slots, len(c.Slots))
	for i := range c.Slots {
		require.Equal(t, c.Slots[i].Start, mutated.Slots[i].Start)
		require.Equal(t, c.Slots[i].End, mutated.Slots[i].End)
		require.Equal(t, c.Slots[i].Kind, mutated.Slots[i].Kind)
	}

	// 只有两个任务段，交换的结果是确定的
	require.Equal(t, b.ID, mutated.Slots[0].Task.ID)
	require.Equal(t, a.ID, mutated.Slots[2].Task.ID)

	// 原候选日程不受影响
	require.Equal(t, a.ID, c.Slots[0].Task.ID)
	require.Equal(t, b.ID, c.Slots[2].Task.ID)
}

func TestMutateKeepsCandidateWhenDrawExceedsRate(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 0 // 随机数几乎必然大于 0，不会触发交换
	s := newTestScheduler(t, cfg, 7)

	c := s.placeTasks([]*domain.Task{newTestTask("任务一", 30, 3), newTestTask("任务二", 60, 3)}, testDate)

	require.Same(t, c, s.mutate(c))
}

func TestMutateSingleTaskSlot(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 1
	s := newTestScheduler(t, cfg, 7)

	task := newTestTask("唯一的任务", 30, 3)
	c := s.placeTasks([]*domain.Task{task}, testDate)

	// 任务段不足两个时无法交换，返回的拷贝和原来一致
	mutated := s.mutate(c)
	require.NotSame(t, c, mutated)
	require.Equal(t, c.ScheduleSlots(), mutated.ScheduleSlots())
}

func TestCrossoverCombinesParentOrderings(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	t1 := newTestTask("任务一", 30, 3)
	t2 := newTestTask("任务二", 30, 3)
	t3 := newTestTask("任务三", 30, 3)
	t4 := newTestTask("任务四", 30, 3)
	t5 := newTestTask("任务五", 30, 3)
	t6 := newTestTask("任务六", 30, 3)

	parentA := s.placeTasks([]*domain.Task{t1, t2}, testDate)
	parentB := s.placeTasks([]*domain.Task{t3, t4, t5, t6}, testDate)

	child := s.crossover(parentA, parentB, testDate)

	ids := make([]string, 0)
	for _, task := range child.ScheduledTasks() {
		ids = append(ids, task.ID)
	}

	// A 的前一半 [t1] 接上 B 的后一半 [t4 t5 t6]，再补上缺失的 t2 和 t3
	require.Equal(t, []string{t1.ID, t4.ID, t5.ID, t6.ID, t2.ID, t3.ID}, ids)

	requireValidCandidate(t, child, testConfig())
}

func TestCrossoverDeduplicatesSharedTasks(t *testing.T) {
	s := newTestScheduler(t, testConfig(), 1)

	t1 := newTestTask("任务一", 30, 3)
	t2 := newTestTask("任务二", 30, 3)
	t3 := newTestTask("任务三", 30, 3)
	t4 := newTestTask("任务四", 30, 3)

	parentA := s.placeTasks([]*domain.Task{t1, t2, t3, t4}, testDate)
	parentB := s.placeTasks([]*domain.Task{t4, t3, t2, t1}, testDate)

	child := s.crossover(parentA, parentB, testDate)

	ids := make([]string, 0)
	for _, task := range child.ScheduledTasks() {
		ids = append(ids, task.ID)
	}

	// B 的后一半 [t2 t1] 和 A 的前一半重复，去重后按 A 的顺序补齐
	require.Equal(t, []string{t1.ID, t2.ID, t3.ID, t4.ID}, ids)

	requireValidCandidate(t, child, testConfig())
}

func TestTournamentWholePopulationReturnsBest(t *testing.T) {
	cfg := testConfig()
	cfg.PopulationSize = 4
	cfg.EliteSize = 1
	cfg.TournamentSize = 4
	s := newTestScheduler(t, cfg, 1)

	scored := []scoredCandidate{
		{candidate: &Candidate{}, fitness: 1},
		{candidate: &Candidate{}, fitness: 42},
		{candidate: &Candidate{}, fitness: -3},
		{candidate: &Candidate{}, fitness: 7},
	}

	// 抽样数量等于种群大小时，锦标赛一定返回全局最优
	for i := 0; i < 10; i++ {
		require.Same(t, scored[1].candidate, s.tournament(scored))
	}
}
