package domain

import "time"

type PreferredTime string

const (
	PreferredTimeMorning   PreferredTime = "morning"
	PreferredTimeAfternoon PreferredTime = "afternoon"
	PreferredTimeEvening   PreferredTime = "evening"
)

// Task 表示某一天中需要安排的一个任务
type Task struct {
	ID            string        `json:"id"`
	UserID        int64         `json:"-"`
	Date          string        `json:"date,omitempty"`
	Name          string        `json:"name"`
	Duration      int32         `json:"duration"` // 单位为分钟
	Priority      int32         `json:"priority"` // 1~5，5 为最高优先级
	Deadline      *time.Time    `json:"deadline,omitempty"`
	PreferredTime PreferredTime `json:"preferredTime,omitempty"`
	Completed     bool          `json:"completed"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	Version       int32         `json:"-"`
}
