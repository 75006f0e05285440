package scheduler

import (
	"slices"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// randomCandidate 随机生成一个候选日程
// 先打乱任务顺序，再按顺序贪心放置，日程的多样性完全来自打乱后的顺序
func (s *Scheduler) randomCandidate(tasks []*domain.Task, date time.Time) *Candidate {
	shuffled := slices.Clone(tasks)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return s.placeTasks(shuffled, date)
}

// placeTasks 按给定顺序从工作开始时间起依次放置任务
// 放不下的任务直接跳过，不做回溯
func (s *Scheduler) placeTasks(ordered []*domain.Task, date time.Time) *Candidate {
	workEnd := hourOnDate(date, s.cfg.WorkEndHour)
	lunchStart := hourOnDate(date, lunchHour)
	lunchEnd := lunchStart.Add(time.Duration(s.cfg.LunchDuration) * time.Minute)

	slots := make([]*TimeSlot, 0, 2*len(ordered)+1)
	cursor := hourOnDate(date, s.cfg.WorkStartHour)

	for _, task := range ordered {
		duration := time.Duration(task.Duration) * time.Minute

		// 任务会和午休时段重叠时，推迟到午休结束后再放置
		if cursor.Before(lunchEnd) && cursor.Add(duration).After(lunchStart) {
			cursor = lunchEnd
		}

		// 工作时段内已经放不下这个任务了，跳过
		if cursor.Add(duration).After(workEnd) {
			continue
		}

		slot := newTaskSlot(cursor, cursor.Add(duration), task)
		slots = append(slots, slot)
		cursor = slot.End

		// 任务结束后放一个短休息
		// 放不下或者会和午休时段重叠时就不放，游标停在任务结束处
		breakEnd := cursor.Add(time.Duration(s.cfg.BreakDuration) * time.Minute)
		if breakEnd.Before(workEnd) && !(cursor.Before(lunchEnd) && breakEnd.After(lunchStart)) {
			slots = append(slots, newBreakSlot(cursor, breakEnd))
			cursor = breakEnd
		}
	}

	// 固定的午休时段，即使一个任务都没有也会存在
	slots = append(slots, newBreakSlot(lunchStart, lunchEnd))

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return &Candidate{Slots: slots}
}

/**
 * 计算候选日程的适应度，分数越高越好，由五项组成:
 * 		1. 优先级得分: 高优先级任务排得越靠前得分越高
 * 		2. 截止时间: 赶上了加 20 分，赶不上按迟到的小时数扣分
 * 		3. 偏好时段: 任务的开始时间落在偏好时段内加 5 分
 * 		4. 未排入惩罚: 每个没有排进日程的任务扣 50 分
 * 		5. 休息分布: 休息之间的间隔越均匀得分越高
 */
func (s *Scheduler) Fitness(c *Candidate, tasks []*domain.Task) float64 {
	score := 0.0
	total := len(c.Slots)

	scheduled := make(map[string]bool, total)

	for i, slot := range c.Slots {
		if slot.Kind != SlotTask {
			continue
		}

		task := slot.Task
		scheduled[task.ID] = true

		// 优先级得分，位置权重随下标线性衰减
		timeWeight := 1 - float64(i)/float64(total)
		score += float64(task.Priority) * timeWeight * 10

		// 截止时间
		if task.Deadline != nil {
			if !slot.End.After(*task.Deadline) {
				score += 20
			} else {
				score -= slot.End.Sub(*task.Deadline).Hours() * 10
			}
		}

		// 偏好时段，按开始时间所在的整点判断
		hour := slot.Start.Hour()
		switch task.PreferredTime {
		case domain.PreferredTimeMorning:
			if hour >= 6 && hour < 12 {
				score += 5
			}
		case domain.PreferredTimeAfternoon:
			if hour >= 12 && hour < 17 {
				score += 5
			}
		case domain.PreferredTimeEvening:
			if hour >= 17 && hour < 22 {
				score += 5
			}
		}
	}

	// 未排入惩罚
	for _, task := range tasks {
		if !scheduled[task.ID] {
			score -= 50
		}
	}

	// 休息分布
	// 以第一个时间段的开始时间为基准，依次计算每个休息段与上一个休息结束之间的间隔
	// 间隔的方差越小说明休息分布得越均匀
	if total > 0 {
		intervals := make([]float64, 0, total)
		ref := c.Slots[0].Start

		for _, slot := range c.Slots {
			if slot.Kind != SlotBreak {
				continue
			}
			intervals = append(intervals, slot.Start.Sub(ref).Hours())
			ref = slot.End
		}

		if len(intervals) > 0 {
			// 这里用的是总体方差，分母为 n
			score += 10 / (1 + stat.PopVariance(intervals, nil))
		}
	}

	return score
}

// crossover 交叉两个父代
// 取父代 A 的前半段任务顺序和父代 B 的后半段任务顺序，按首次出现去重，
// 再把两个父代中剩余的任务补在后面，最后按组合出来的顺序重新放置
func (s *Scheduler) crossover(a *Candidate, b *Candidate, date time.Time) *Candidate {
	tasksA := a.ScheduledTasks()
	tasksB := b.ScheduledTasks()

	combined := make([]*domain.Task, 0, len(tasksA)+len(tasksB))
	seen := make(map[string]bool, len(tasksA)+len(tasksB))

	appendUnique := func(tasks []*domain.Task) {
		for _, task := range tasks {
			if seen[task.ID] {
				continue
			}
			seen[task.ID] = true
			combined = append(combined, task)
		}
	}

	split := len(tasksA) / 2
	appendUnique(tasksA[:split])
	appendUnique(tasksB[min(split, len(tasksB)):])

	// 补上两个父代中还没出现过的任务
	appendUnique(tasksA)
	appendUnique(tasksB)

	return s.placeTasks(combined, date)
}

// mutate 变异
// 交换两个随机任务段所持有的任务，时间边界保持不变
// 注意比较的方向: 随机数大于变异概率时原样返回，因此发生交换的概率等于 MutationRate
func (s *Scheduler) mutate(c *Candidate) *Candidate {
	if s.rng.Float64() > s.cfg.MutationRate {
		return c
	}

	mutated := c.Clone()

	indexes := mutated.taskSlotIndexes()
	if len(indexes) < 2 {
		return mutated
	}

	// 不放回地抽出两个不同的任务段
	picked := s.rng.Perm(len(indexes))
	i, j := indexes[picked[0]], indexes[picked[1]]
	mutated.Slots[i].Task, mutated.Slots[j].Task = mutated.Slots[j].Task, mutated.Slots[i].Task

	return mutated
}

// tournament 锦标赛选择
// 不放回地抽出 TournamentSize 个个体，返回其中适应度最高的那个
func (s *Scheduler) tournament(scored []scoredCandidate) *Candidate {
	picked := s.rng.Perm(len(scored))[:s.cfg.TournamentSize]

	best := picked[0]
	for _, idx := range picked[1:] {
		if scored[idx].fitness > scored[best].fitness {
			best = idx
		}
	}

	return scored[best].candidate
}

func hourOnDate(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}
