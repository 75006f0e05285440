package domain

import "time"

// SlotTask 是日程时间段所引用的任务信息
type SlotTask struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Duration  int32  `json:"duration"`
	Priority  int32  `json:"priority"`
	Completed bool   `json:"completed"`
}

// ScheduleSlot 是日程中的一个时间段
// 任务段持有任务信息，休息段的 Task 为空
type ScheduleSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	IsBreak   bool      `json:"isBreak"`
	Task      *SlotTask `json:"task,omitempty"`
}

// Schedule 是某个用户某一天的完整日程，每个用户每天至多一份
type Schedule struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"userID"`
	Date      string         `json:"date"`
	Slots     []ScheduleSlot `json:"slots"`
	Fitness   float64        `json:"fitness"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Version   int32          `json:"-"`
}
