package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

// GetPreferencesByUserID 查询用户设置，还没保存过设置的用户拿到默认值
func (r *Repository) GetPreferencesByUserID(userID int64) (*domain.Preferences, error) {
	query := `
		SELECT work_start_hour, work_end_hour, lunch_duration, break_duration, theme, notifications_enabled, version
		FROM preferences
		WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	preferences := &domain.Preferences{
		UserID: userID,
	}

	dst := []any{
		&preferences.WorkStartHour,
		&preferences.WorkEndHour,
		&preferences.LunchDuration,
		&preferences.BreakDuration,
		&preferences.Theme,
		&preferences.NotificationsEnabled,
		&preferences.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultPreferences(userID), nil
		}
		return nil, err
	}

	return preferences, nil
}

func (r *Repository) UpsertPreferences(preferences *domain.Preferences) error {
	query := `
		INSERT INTO preferences (user_id, work_start_hour, work_end_hour, lunch_duration, break_duration, theme, notifications_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET
			work_start_hour = EXCLUDED.work_start_hour,
			work_end_hour = EXCLUDED.work_end_hour,
			lunch_duration = EXCLUDED.lunch_duration,
			break_duration = EXCLUDED.break_duration,
			theme = EXCLUDED.theme,
			notifications_enabled = EXCLUDED.notifications_enabled,
			version = preferences.version + 1
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		preferences.UserID,
		preferences.WorkStartHour,
		preferences.WorkEndHour,
		preferences.LunchDuration,
		preferences.BreakDuration,
		preferences.Theme,
		preferences.NotificationsEnabled,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&preferences.Version); err != nil {
		return err
	}

	return nil
}
