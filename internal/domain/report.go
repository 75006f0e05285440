package domain

// PriorityStat 按优先级统计任务的完成情况
type PriorityStat struct {
	Priority  int32 `json:"priority"`
	Total     int32 `json:"total"`
	Completed int32 `json:"completed"`
}

// DailyReport 是单日任务完成情况的汇总
type DailyReport struct {
	Date              string         `json:"date"`
	TotalTasks        int32          `json:"totalTasks"`
	CompletedTasks    int32          `json:"completedTasks"`
	CompletionRate    float64        `json:"completionRate"` // 百分比
	PlannedMinutes    int32          `json:"plannedMinutes"`
	CompletedMinutes  int32          `json:"completedMinutes"`
	PriorityBreakdown []PriorityStat `json:"priorityBreakdown"`
}

// DayStat 是一周汇总中单日的完成情况
type DayStat struct {
	Date           string  `json:"date"`
	TotalTasks     int32   `json:"totalTasks"`
	CompletedTasks int32   `json:"completedTasks"`
	CompletionRate float64 `json:"completionRate"`
}

// ProductiveDay 记录一周中完成任务时长最多的一天
type ProductiveDay struct {
	Date              string `json:"date"`
	ProductiveMinutes int32  `json:"productiveMinutes"`
}

// WeeklyReport 是最近一周任务完成情况的汇总
// CurrentStreak 表示截止 EndDate 连续多少天完成率不低于 80%
type WeeklyReport struct {
	StartDate         string         `json:"startDate"`
	EndDate           string         `json:"endDate"`
	DailyStats        []DayStat      `json:"dailyStats"`
	TotalTasks        int32          `json:"totalTasks"`
	CompletedTasks    int32          `json:"completedTasks"`
	CompletionRate    float64        `json:"completionRate"`
	CurrentStreak     int32          `json:"currentStreak"`
	MostProductiveDay *ProductiveDay `json:"mostProductiveDay,omitempty"`
}
