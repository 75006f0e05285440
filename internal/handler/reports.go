package handler

import (
	"net/http"
	"time"
)

func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.repository.GetDailyReport(userID, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取日报成功", report)
}

func (h *Handler) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	endDate := r.URL.Query().Get("endDate")
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}

	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效")
		return
	}

	// 统计截止日期往前共七天
	startDate := end.AddDate(0, 0, -6).Format("2006-01-02")

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	report, err := h.repository.GetWeeklyReport(userID, startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周报成功", report)
}
