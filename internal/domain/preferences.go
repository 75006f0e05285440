package domain

// Preferences 是用户的个性化设置，其中的工作时段和休息时长会作为排程引擎的输入
type Preferences struct {
	UserID               int64  `json:"-"`
	WorkStartHour        int32  `json:"workStartHour"`
	WorkEndHour          int32  `json:"workEndHour"`
	LunchDuration        int32  `json:"lunchDuration"` // 单位为分钟
	BreakDuration        int32  `json:"breakDuration"` // 单位为分钟
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	Version              int32  `json:"-"`
}

// DefaultPreferences 返回新用户的默认设置
func DefaultPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:               userID,
		WorkStartHour:        8,
		WorkEndHour:          20,
		LunchDuration:        60,
		BreakDuration:        15,
		Theme:                "light",
		NotificationsEnabled: true,
		Version:              1,
	}
}
