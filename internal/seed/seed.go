package seed

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/utils"
)

// 任务 csv 的表头
// deadline 列填当天的时刻（如 18:00），留空表示没有截止时间
// preferred_time 列填 morning、afternoon 或 evening，留空表示没有偏好
var taskHeaders = []string{"name", "duration", "priority", "deadline", "preferred_time"}

// SeedTasksFromCSV 从 csv 文件导入某个用户某一天的任务
func SeedTasksFromCSV(r *repository.Repository, userID int64, date string, path string) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		slog.Error("日期格式无效", "date", date)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取并校验表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}
	if !slices.Equal(headers, taskHeaders) {
		slog.Error("表头不符合预期", "headers", headers)
		return
	}

	// 读取数据
	tasks := make([]*domain.Task, 0)
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		duration, err := strconv.Atoi(row[1])
		if err != nil {
			slog.Error("时长格式无效", "row", row)
			continue
		}

		priority := 3
		if row[2] != "" {
			priority, err = strconv.Atoi(row[2])
			if err != nil {
				slog.Error("优先级格式无效", "row", row)
				continue
			}
		}

		task := &domain.Task{
			ID:            uuid.NewString(),
			UserID:        userID,
			Date:          date,
			Name:          row[0],
			Duration:      int32(duration),
			Priority:      int32(priority),
			PreferredTime: domain.PreferredTime(row[4]),
		}

		if row[3] != "" {
			clock, err := time.Parse("15:04", row[3])
			if err != nil {
				slog.Error("截止时间格式无效", "row", row)
				continue
			}
			deadline := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
			task.Deadline = &deadline
		}

		tasks = append(tasks, task)
	}

	if err := utils.ValidateTasks(tasks); err != nil {
		slog.Error("任务校验失败", "error", err)
		return
	}

	if err := r.UpsertTasks(tasks); err != nil {
		slog.Error("插入任务失败", "error", err)
		return
	}

	slog.Info("插入任务完成", "count", len(tasks))
}
