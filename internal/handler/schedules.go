package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/export"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/utils"
)

// taskRequest 是排程接口中提交任务的公共格式
type taskRequest struct {
	ID            string     `json:"id"`
	Name          string     `json:"name" validate:"required"`
	Duration      int32      `json:"duration" validate:"required,min=1"`
	Priority      int32      `json:"priority" validate:"omitempty,min=1,max=5"`
	Deadline      *time.Time `json:"deadline"`
	PreferredTime string     `json:"preferredTime" validate:"omitempty,oneof=morning afternoon evening"`
}

// schedulerParamsRequest 允许客户端覆盖遗传算法的默认参数
type schedulerParamsRequest struct {
	PopulationSize int     `json:"populationSize" validate:"required,min=1"`
	Generations    int     `json:"generations" validate:"required,min=1"`
	MutationRate   float64 `json:"mutationRate" validate:"required,min=0,max=1"`
	EliteSize      int     `json:"eliteSize" validate:"min=0"`
	TournamentSize int     `json:"tournamentSize" validate:"required,min=1"`
}

// buildTasks 把请求中的任务转换成领域对象
// 没填 ID 的任务自动生成，没填优先级的按普通优先级处理
func buildTasks(reqTasks []taskRequest, userID int64, date string) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(reqTasks))

	for _, rt := range reqTasks {
		task := &domain.Task{
			ID:            rt.ID,
			UserID:        userID,
			Date:          date,
			Name:          rt.Name,
			Duration:      rt.Duration,
			Priority:      rt.Priority,
			Deadline:      rt.Deadline,
			PreferredTime: domain.PreferredTime(rt.PreferredTime),
		}
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if task.Priority == 0 {
			task.Priority = 3
		}
		tasks = append(tasks, task)
	}

	return tasks
}

// schedulerConfig 用用户偏好和全局配置组装排程配置，请求中显式给出的参数优先
func (h *Handler) schedulerConfig(prefs *domain.Preferences, params *schedulerParamsRequest) scheduler.Config {
	cfg := scheduler.Config{
		WorkStartHour:  int(prefs.WorkStartHour),
		WorkEndHour:    int(prefs.WorkEndHour),
		LunchDuration:  int(prefs.LunchDuration),
		BreakDuration:  int(prefs.BreakDuration),
		PopulationSize: h.config.Scheduler.PopulationSize,
		Generations:    h.config.Scheduler.Generations,
		MutationRate:   h.config.Scheduler.MutationRate,
		EliteSize:      h.config.Scheduler.EliteSize,
		TournamentSize: h.config.Scheduler.TournamentSize,
	}

	if params != nil {
		cfg.PopulationSize = params.PopulationSize
		cfg.Generations = params.Generations
		cfg.MutationRate = params.MutationRate
		cfg.EliteSize = params.EliteSize
		cfg.TournamentSize = params.TournamentSize
	}

	return cfg
}

func (h *Handler) OptimizeSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date       string                  `json:"date" validate:"required,datetime=2006-01-02"`
		Tasks      []taskRequest           `json:"tasks" validate:"omitempty,dive"`
		Parameters *schedulerParamsRequest `json:"parameters"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	tasks := buildTasks(req.Tasks, userID, req.Date)
	if err := utils.ValidateTasks(tasks); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 工作时段和休息时长来自用户偏好
	prefs, err := h.repository.GetPreferencesByUserID(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sched, err := scheduler.New(h.schedulerConfig(prefs, req.Parameters), time.Now().UnixNano())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	best, stats := sched.Optimize(tasks, date)

	// 任务和生成的日程都要落库，之后完成状态更新和重排都以数据库为准
	if err := h.repository.UpsertTasks(tasks); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	schedule := &domain.Schedule{
		UserID:  userID,
		Date:    req.Date,
		Slots:   best.ScheduleSlots(),
		Fitness: sched.Fitness(best, tasks),
	}

	if err := h.repository.UpsertSchedule(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	data := struct {
		Schedule       *domain.Schedule           `json:"schedule"`
		Stats          []scheduler.GenerationStat `json:"stats"`
		TotalTasks     int                        `json:"totalTasks"`
		ScheduledTasks int                        `json:"scheduledTasks"`
	}{
		Schedule:       schedule,
		Stats:          stats,
		TotalTasks:     len(tasks),
		ScheduledTasks: len(best.ScheduledTasks()),
	}

	h.successResponse(w, r, "生成日程成功", data)
}

func (h *Handler) RescheduleSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentDate string                  `json:"currentDate" validate:"required,datetime=2006-01-02"`
		NewDate     string                  `json:"newDate" validate:"omitempty,datetime=2006-01-02"`
		NewTasks    []taskRequest           `json:"newTasks" validate:"omitempty,dive"`
		Parameters  *schedulerParamsRequest `json:"parameters"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 不指定新日期时默认重排到今天
	newDate := req.NewDate
	if newDate == "" {
		newDate = time.Now().Format("2006-01-02")
	}

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	current, err := h.repository.GetScheduleByUserAndDate(userID, req.CurrentDate)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该日期还没有日程安排")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 日程快照中的完成状态可能已经过期，以任务表中的最新记录为准
	currentTasks, err := h.repository.GetTasksByUserAndDate(userID, req.CurrentDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	completed := make(map[string]bool, len(currentTasks))
	for _, task := range currentTasks {
		completed[task.ID] = task.Completed
	}

	prefs, err := h.repository.GetPreferencesByUserID(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sched, err := scheduler.New(h.schedulerConfig(prefs, req.Parameters), time.Now().UnixNano())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 未完成的任务带到新的一天，优先级提升由排程引擎处理
	carried := sched.CarryUnfinished(scheduler.CandidateFromSlots(current.Slots, completed))
	for _, task := range carried {
		task.UserID = userID
		task.Date = newDate
	}

	tasks := append(carried, buildTasks(req.NewTasks, userID, newDate)...)
	if err := utils.ValidateTasks(tasks); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, _ := time.Parse("2006-01-02", newDate)
	best, stats := sched.Optimize(tasks, date)

	if err := h.repository.UpsertTasks(tasks); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	schedule := &domain.Schedule{
		UserID:  userID,
		Date:    newDate,
		Slots:   best.ScheduleSlots(),
		Fitness: sched.Fitness(best, tasks),
	}

	if err := h.repository.UpsertSchedule(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	data := struct {
		Schedule       *domain.Schedule           `json:"schedule"`
		Stats          []scheduler.GenerationStat `json:"stats"`
		CarriedTasks   int                        `json:"carriedTasks"`
		TotalTasks     int                        `json:"totalTasks"`
		ScheduledTasks int                        `json:"scheduledTasks"`
	}{
		Schedule:       schedule,
		Stats:          stats,
		CarriedTasks:   len(carried),
		TotalTasks:     len(tasks),
		ScheduledTasks: len(best.ScheduledTasks()),
	}

	h.successResponse(w, r, "重新排程成功", data)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	h.successResponse(w, r, "获取日程成功", schedule)
}

func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=schedule_%s.csv", schedule.Date))

	// 响应头已经写出，这里出错只能记录日志
	if err := export.WriteCSV(w, schedule); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) SendSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	tasks, err := h.repository.GetTasksByUserAndDate(myInfo.ID, schedule.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 准备邮件
	mailSlots := make([]domain.ScheduleMailSlot, 0, len(schedule.Slots))
	scheduledTasks := 0
	for _, slot := range schedule.Slots {
		label := "休息"
		if slot.Task != nil {
			label = slot.Task.Name
			scheduledTasks++
		}
		mailSlots = append(mailSlots, domain.ScheduleMailSlot{
			StartTime: slot.StartTime.Format("15:04"),
			EndTime:   slot.EndTime.Format("15:04"),
			Label:     label,
		})
	}

	mailMessage := domain.MailMessage{
		Type: "schedule_report",
		To:   myInfo.Email,
		Data: domain.ScheduleReportMailData{
			FullName:       myInfo.FullName,
			Date:           schedule.Date,
			Slots:          mailSlots,
			TotalTasks:     len(tasks),
			ScheduledTasks: scheduledTasks,
		},
	}

	// 序列化邮件
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 发送邮件到消息队列中
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "日程安排已通过邮件发送", nil)
}
