package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// ScheduleMailSlot 是日程邮件中的一行，时间已经格式化成 HH:MM
type ScheduleMailSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Label     string `json:"label"`
}

type ScheduleReportMailData struct {
	FullName       string             `json:"fullName"`
	Date           string             `json:"date"`
	Slots          []ScheduleMailSlot `json:"slots"`
	TotalTasks     int                `json:"totalTasks"`
	ScheduledTasks int                `json:"scheduledTasks"`
}
