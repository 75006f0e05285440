package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

var csvHeader = []string{"start_time", "end_time", "type", "task_id", "task_name", "duration", "priority", "completed"}

// WriteCSV 把日程写成 csv，每个时间段一行，时间输出为当天的时刻
func WriteCSV(w io.Writer, schedule *domain.Schedule) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, slot := range schedule.Slots {
		record := make([]string, 0, len(csvHeader))
		record = append(record, slot.StartTime.Format("15:04"), slot.EndTime.Format("15:04"))

		if slot.IsBreak || slot.Task == nil {
			record = append(record, "break", "", "", "", "", "")
		} else {
			record = append(record,
				"task",
				slot.Task.ID,
				slot.Task.Name,
				strconv.Itoa(int(slot.Task.Duration)),
				strconv.Itoa(int(slot.Task.Priority)),
				strconv.FormatBool(slot.Task.Completed),
			)
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
