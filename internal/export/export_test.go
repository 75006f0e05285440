package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	at := func(hour int, minute int) time.Time {
		return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
	}

	schedule := &domain.Schedule{
		UserID: 1,
		Date:   "2026-03-02",
		Slots: []domain.ScheduleSlot{
			{StartTime: at(8, 0), EndTime: at(9, 0), Task: &domain.SlotTask{ID: "t1", Name: "写周报", Duration: 60, Priority: 3}},
			{StartTime: at(9, 0), EndTime: at(9, 15), IsBreak: true},
			{StartTime: at(12, 0), EndTime: at(13, 0), IsBreak: true},
			{StartTime: at(13, 0), EndTime: at(13, 30), Task: &domain.SlotTask{ID: "t2", Name: "代码评审", Duration: 30, Priority: 5, Completed: true}},
		},
	}

	buf := bytes.Buffer{}
	require.NoError(t, WriteCSV(&buf, schedule))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "start_time,end_time,type,task_id,task_name,duration,priority,completed", lines[0])
	require.Equal(t, "08:00,09:00,task,t1,写周报,60,3,false", lines[1])
	require.Equal(t, "09:00,09:15,break,,,,,", lines[2])
	require.Equal(t, "12:00,13:00,break,,,,,", lines[3])
	require.Equal(t, "13:00,13:30,task,t2,代码评审,30,5,true", lines[4])
}

func TestWriteCSVEmptySchedule(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, WriteCSV(&buf, &domain.Schedule{Date: "2026-03-02"}))
	require.Equal(t, "start_time,end_time,type,task_id,task_name,duration,priority,completed\n", buf.String())
}
