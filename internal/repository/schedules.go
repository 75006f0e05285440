package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

// UpsertSchedule 保存某个用户某一天的日程，每个用户每天只保留一份
func (r *Repository) UpsertSchedule(schedule *domain.Schedule) error {
	slots, err := json.Marshal(schedule.Slots)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO schedules (user_id, date, slots, fitness)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, date) DO UPDATE
		SET
			slots = EXCLUDED.slots,
			fitness = EXCLUDED.fitness,
			updated_at = now(),
			version = schedules.version + 1
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{schedule.UserID, schedule.Date, slots, schedule.Fitness}
	dst := []any{&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByUserAndDate(userID int64, date string) (*domain.Schedule, error) {
	query := `
		SELECT id, slots, fitness, created_at, updated_at, version
		FROM schedules
		WHERE user_id = $1 AND date = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.Schedule{
		UserID: userID,
		Date:   date,
	}

	var slots []byte

	dst := []any{&schedule.ID, &slots, &schedule.Fitness, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, date).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(slots, &schedule.Slots); err != nil {
		return nil, err
	}

	return schedule, nil
}
