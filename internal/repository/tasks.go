package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

// UpsertTasks 在一个事务中写入当天的任务，已经存在的任务会被覆盖
func (r *Repository) UpsertTasks(tasks []*domain.Task) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO tasks (id, user_id, date, name, duration, priority, deadline, preferred_time, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET
			date = EXCLUDED.date,
			name = EXCLUDED.name,
			duration = EXCLUDED.duration,
			priority = EXCLUDED.priority,
			deadline = EXCLUDED.deadline,
			preferred_time = EXCLUDED.preferred_time,
			completed = EXCLUDED.completed,
			version = tasks.version + 1
		RETURNING created_at, version
	`

	for _, task := range tasks {
		args := []any{task.ID, task.UserID, task.Date, task.Name, task.Duration, task.Priority, task.Deadline, task.PreferredTime, task.Completed}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&task.CreatedAt, &task.Version); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTasksByUserAndDate(userID int64, date string) ([]*domain.Task, error) {
	query := `
		SELECT id, name, duration, priority, deadline, preferred_time, completed, completed_at, created_at, version
		FROM tasks
		WHERE user_id = $1 AND date = $2
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task := &domain.Task{
			UserID: userID,
			Date:   date,
		}

		var deadline sql.NullTime
		var completedAt sql.NullTime

		dst := []any{&task.ID, &task.Name, &task.Duration, &task.Priority, &deadline, &task.PreferredTime, &task.Completed, &completedAt, &task.CreatedAt, &task.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if deadline.Valid {
			task.Deadline = &deadline.Time
		}
		if completedAt.Valid {
			task.CompletedAt = &completedAt.Time
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateTaskCompletion 更新任务的完成状态，任务不存在时返回 sql.ErrNoRows
func (r *Repository) UpdateTaskCompletion(userID int64, taskID string, completed bool) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET
			completed = $1,
			completed_at = CASE WHEN $1 THEN now() ELSE NULL END,
			version = version + 1
		WHERE id = $2 AND user_id = $3
		RETURNING date, name, duration, priority, deadline, preferred_time, completed_at, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	task := &domain.Task{
		ID:        taskID,
		UserID:    userID,
		Completed: completed,
	}

	var deadline sql.NullTime
	var completedAt sql.NullTime

	dst := []any{&task.Date, &task.Name, &task.Duration, &task.Priority, &deadline, &task.PreferredTime, &completedAt, &task.CreatedAt, &task.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, completed, taskID, userID).Scan(dst...); err != nil {
		return nil, err
	}

	if deadline.Valid {
		task.Deadline = &deadline.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}
