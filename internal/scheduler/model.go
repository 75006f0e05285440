package scheduler

import (
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

// 午休固定从 12 点开始
const lunchHour = 12

// SlotKind 表示时间段的种类
type SlotKind int

const (
	SlotTask  SlotKind = iota // 任务段，必须持有任务
	SlotBreak                 // 休息段，不持有任务
)

// TimeSlot 表示候选日程中的一个时间段
type TimeSlot struct {
	Start time.Time
	End   time.Time
	Kind  SlotKind
	Task  *domain.Task // 仅当 Kind == SlotTask 时非空
}

func newTaskSlot(start time.Time, end time.Time, task *domain.Task) *TimeSlot {
	return &TimeSlot{Start: start, End: end, Kind: SlotTask, Task: task}
}

func newBreakSlot(start time.Time, end time.Time) *TimeSlot {
	return &TimeSlot{Start: start, End: end, Kind: SlotBreak}
}

// Candidate 表示一个候选日程，Slots 按开始时间升序排列
// 适应度不保存在候选日程上，而是在每一代中单独计算
type Candidate struct {
	Slots []*TimeSlot
}

// Clone 深拷贝候选日程
// 变异前必须先拷贝，防止被保留的精英个体在繁殖的过程中被意外修改
// 任务本身是共享的只读数据，不需要拷贝
func (c *Candidate) Clone() *Candidate {
	clone := &Candidate{Slots: make([]*TimeSlot, len(c.Slots))}
	for i, slot := range c.Slots {
		copied := *slot
		clone.Slots[i] = &copied
	}
	return clone
}

// taskSlotIndexes 返回所有任务段的下标
func (c *Candidate) taskSlotIndexes() []int {
	indexes := make([]int, 0, len(c.Slots))
	for i, slot := range c.Slots {
		if slot.Kind == SlotTask {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// ScheduledTasks 按时间顺序返回所有已排入日程的任务
func (c *Candidate) ScheduledTasks() []*domain.Task {
	tasks := make([]*domain.Task, 0, len(c.Slots))
	for _, slot := range c.Slots {
		if slot.Kind == SlotTask {
			tasks = append(tasks, slot.Task)
		}
	}
	return tasks
}

// 遗传算法参数和工作日设置
type Config struct {
	WorkStartHour  int     // 工作开始的整点
	WorkEndHour    int     // 工作结束的整点
	LunchDuration  int     // 午休时长（分钟）
	BreakDuration  int     // 任务后短休息的时长（分钟）
	PopulationSize int     // 种群大小
	Generations    int     // 迭代代数
	MutationRate   float64 // 变异概率
	EliteSize      int     // 精英数量
	TournamentSize int     // 锦标赛抽样数量
}

// Validate 检查配置是否合法
func (cfg *Config) Validate() error {
	if cfg.WorkStartHour < 0 || cfg.WorkEndHour > 24 || cfg.WorkStartHour >= cfg.WorkEndHour {
		return errors.New("工作时段不合法")
	}
	if cfg.LunchDuration <= 0 {
		return errors.New("午休时长必须为正数")
	}
	if cfg.BreakDuration <= 0 {
		return errors.New("短休息时长必须为正数")
	}
	// 午休时段必须完整地落在工作时段内，否则固定午休和不重叠约束无法同时满足
	if cfg.WorkStartHour > lunchHour || lunchHour*60+cfg.LunchDuration > cfg.WorkEndHour*60 {
		return errors.New("午休时段必须完整地落在工作时段内")
	}
	if cfg.PopulationSize <= 0 {
		return errors.New("种群大小必须为正数")
	}
	if cfg.Generations <= 0 {
		return errors.New("迭代代数必须为正数")
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return errors.New("变异概率必须在 0 到 1 之间")
	}
	if cfg.EliteSize < 0 || cfg.EliteSize >= cfg.PopulationSize {
		return errors.New("精英数量必须小于种群大小")
	}
	if cfg.TournamentSize < 1 || cfg.TournamentSize > cfg.PopulationSize {
		return errors.New("锦标赛抽样数量必须在 1 到种群大小之间")
	}
	return nil
}

// GenerationStat 记录某一代种群的适应度统计
type GenerationStat struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"bestFitness"`
	MeanFitness float64 `json:"meanFitness"`
}
