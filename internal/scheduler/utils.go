package scheduler

import "github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"

// ScheduleSlots 把候选日程转换成可持久化的日程时间段
func (c *Candidate) ScheduleSlots() []domain.ScheduleSlot {
	slots := make([]domain.ScheduleSlot, 0, len(c.Slots))

	for _, slot := range c.Slots {
		item := domain.ScheduleSlot{
			StartTime: slot.Start,
			EndTime:   slot.End,
			IsBreak:   slot.Kind == SlotBreak,
		}
		if slot.Kind == SlotTask {
			item.Task = &domain.SlotTask{
				ID:        slot.Task.ID,
				Name:      slot.Task.Name,
				Duration:  slot.Task.Duration,
				Priority:  slot.Task.Priority,
				Completed: slot.Task.Completed,
			}
		}
		slots = append(slots, item)
	}

	return slots
}

// CandidateFromSlots 从持久化的日程时间段还原候选日程，重排时用来恢复当天的日程
// completed 中记录的完成状态会覆盖时间段里保存的旧状态，传 nil 表示不覆盖
func CandidateFromSlots(slots []domain.ScheduleSlot, completed map[string]bool) *Candidate {
	c := &Candidate{Slots: make([]*TimeSlot, 0, len(slots))}

	for _, slot := range slots {
		if slot.IsBreak || slot.Task == nil {
			c.Slots = append(c.Slots, newBreakSlot(slot.StartTime, slot.EndTime))
			continue
		}

		task := &domain.Task{
			ID:        slot.Task.ID,
			Name:      slot.Task.Name,
			Duration:  slot.Task.Duration,
			Priority:  slot.Task.Priority,
			Completed: slot.Task.Completed,
		}
		if done, exists := completed[task.ID]; exists {
			task.Completed = done
		}
		c.Slots = append(c.Slots, newTaskSlot(slot.StartTime, slot.EndTime, task))
	}

	return c
}
