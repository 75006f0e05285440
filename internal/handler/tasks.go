package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/parser"
)

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		h.errorResponse(w, r, "日期格式无效")
		return
	}

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	tasks, err := h.repository.GetTasksByUserAndDate(userID, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取任务列表成功", tasks)
}

func (h *Handler) ParseTasks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	parsed := h.parser.ParseTasks(req.Text)
	if len(parsed) == 0 {
		h.errorResponse(w, r, "没有从输入中解析出任何任务")
		return
	}

	// 解析结果带上生成好的任务 ID，客户端确认后可以直接提交给排程接口
	type parsedTask struct {
		ID string `json:"id"`
		*parser.ParsedTask
	}

	tasks := make([]parsedTask, 0, len(parsed))
	for _, pt := range parsed {
		tasks = append(tasks, parsedTask{ID: uuid.NewString(), ParsedTask: pt})
	}

	h.successResponse(w, r, "解析任务成功", tasks)
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req struct {
		Completed *bool `json:"completed" validate:"required"`
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

	task, err := h.repository.UpdateTaskCompletion(userID, taskID, *req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "任务不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新任务完成状态成功", task)
}
