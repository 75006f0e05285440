package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/utils"
)

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	prefs, err := h.repository.GetPreferencesByUserID(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取偏好设置成功", prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkStartHour        *int32  `json:"workStartHour"`
		WorkEndHour          *int32  `json:"workEndHour"`
		LunchDuration        *int32  `json:"lunchDuration"`
		BreakDuration        *int32  `json:"breakDuration"`
		Theme                *string `json:"theme"`
		NotificationsEnabled *bool   `json:"notificationsEnabled"`
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

	// 先取当前设置再局部更新，没提交过设置时从默认值开始改
	prefs, err := h.repository.GetPreferencesByUserID(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if req.WorkStartHour != nil {
		prefs.WorkStartHour = *req.WorkStartHour
	}
	if req.WorkEndHour != nil {
		prefs.WorkEndHour = *req.WorkEndHour
	}
	if req.LunchDuration != nil {
		prefs.LunchDuration = *req.LunchDuration
	}
	if req.BreakDuration != nil {
		prefs.BreakDuration = *req.BreakDuration
	}
	if req.Theme != nil {
		prefs.Theme = *req.Theme
	}
	if req.NotificationsEnabled != nil {
		prefs.NotificationsEnabled = *req.NotificationsEnabled
	}

	if err := utils.ValidatePreferences(prefs); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpsertPreferences(prefs); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新偏好设置成功", prefs)
}
