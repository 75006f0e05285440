package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

func ValidateTasks(tasks []*domain.Task) error {
	seen := make(map[string]bool)

	for i, task := range tasks {
		if task.ID == "" {
			return fmt.Errorf("第 %d 个任务缺少 id", i+1)
		}
		if seen[task.ID] {
			return fmt.Errorf("任务 %s 的 id 重复出现", task.ID)
		}
		seen[task.ID] = true

		if task.Name == "" {
			return fmt.Errorf("第 %d 个任务缺少名称", i+1)
		}
		if task.Duration <= 0 {
			return fmt.Errorf("任务 %s 的时长必须为正数", task.Name)
		}
		if task.Priority < 1 || task.Priority > 5 {
			return fmt.Errorf("任务 %s 的优先级必须在 1 到 5 之间", task.Name)
		}

		switch task.PreferredTime {
		case "", domain.PreferredTimeMorning, domain.PreferredTimeAfternoon, domain.PreferredTimeEvening:
		default:
			return fmt.Errorf("任务 %s 的偏好时段 %s 不合法", task.Name, task.PreferredTime)
		}
	}

	return nil
}

func ValidatePreferences(preferences *domain.Preferences) error {
	if preferences.WorkStartHour < 0 || preferences.WorkEndHour > 24 {
		return fmt.Errorf("工作时段必须落在 0 点到 24 点之间")
	}
	if preferences.WorkStartHour >= preferences.WorkEndHour {
		return fmt.Errorf("工作开始时间必须早于结束时间")
	}
	if preferences.LunchDuration <= 0 {
		return fmt.Errorf("午休时长必须为正数")
	}
	if preferences.BreakDuration <= 0 {
		return fmt.Errorf("短休息时长必须为正数")
	}

	// 午休从 12 点开始，必须完整地落在工作时段内
	if preferences.WorkStartHour > 12 || 12*60+preferences.LunchDuration > preferences.WorkEndHour*60 {
		return fmt.Errorf("午休时段必须完整地落在工作时段内")
	}

	if preferences.Theme != "light" && preferences.Theme != "dark" {
		return fmt.Errorf("主题只支持 light 和 dark")
	}

	return nil
}
