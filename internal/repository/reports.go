package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
)

func (r *Repository) GetDailyReport(userID int64, date string) (*domain.DailyReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	report := &domain.DailyReport{
		Date:              date,
		PriorityBreakdown: make([]domain.PriorityStat, 0),
	}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(duration), 0),
			COALESCE(SUM(CASE WHEN completed THEN duration ELSE 0 END), 0)
		FROM tasks
		WHERE user_id = $1 AND date = $2
	`

	dst := []any{&report.TotalTasks, &report.CompletedTasks, &report.PlannedMinutes, &report.CompletedMinutes}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, date).Scan(dst...); err != nil {
		return nil, err
	}

	if report.TotalTasks > 0 {
		report.CompletionRate = float64(report.CompletedTasks) / float64(report.TotalTasks) * 100
	}

	query = `
		SELECT priority, COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE user_id = $1 AND date = $2
		GROUP BY priority
		ORDER BY priority
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		stat := domain.PriorityStat{}
		if err := rows.Scan(&stat.Priority, &stat.Total, &stat.Completed); err != nil {
			return nil, err
		}
		report.PriorityBreakdown = append(report.PriorityBreakdown, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *Repository) GetWeeklyReport(userID int64, startDate string, endDate string) (*domain.WeeklyReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	report := &domain.WeeklyReport{
		StartDate:  startDate,
		EndDate:    endDate,
		DailyStats: make([]domain.DayStat, 0),
	}

	query := `
		SELECT date, COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY date
		ORDER BY date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		stat := domain.DayStat{}
		if err := rows.Scan(&stat.Date, &stat.TotalTasks, &stat.CompletedTasks); err != nil {
			return nil, err
		}
		if stat.TotalTasks > 0 {
			stat.CompletionRate = float64(stat.CompletedTasks) / float64(stat.TotalTasks) * 100
		}

		report.DailyStats = append(report.DailyStats, stat)
		report.TotalTasks += stat.TotalTasks
		report.CompletedTasks += stat.CompletedTasks
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if report.TotalTasks > 0 {
		report.CompletionRate = float64(report.CompletedTasks) / float64(report.TotalTasks) * 100
	}

	streak, err := r.getCompletionStreak(ctx, userID, endDate)
	if err != nil {
		return nil, err
	}
	report.CurrentStreak = streak

	query = `
		SELECT date, COALESCE(SUM(CASE WHEN completed THEN duration ELSE 0 END), 0) AS productive_minutes
		FROM tasks
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY date
		ORDER BY productive_minutes DESC
		LIMIT 1
	`

	mostProductive := &domain.ProductiveDay{}
	err = r.dbpool.QueryRowContext(ctx, query, userID, startDate, endDate).Scan(&mostProductive.Date, &mostProductive.ProductiveMinutes)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// 这一周一个任务都没有
	case err != nil:
		return nil, err
	default:
		report.MostProductiveDay = mostProductive
	}

	return report, nil
}

// getCompletionStreak 计算截止 endDate 连续多少天完成率不低于 80%
// 从最近的一天往前数，遇到完成率不达标或者间隔超过一天就停下
func (r *Repository) getCompletionStreak(ctx context.Context, userID int64, endDate string) (int32, error) {
	query := `
		SELECT date, COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE user_id = $1 AND date <= $2
		GROUP BY date
		ORDER BY date DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, endDate)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var streak int32
	var lastDate time.Time
	first := true

	for rows.Next() {
		var date string
		var total, completed int32

		if err := rows.Scan(&date, &total, &completed); err != nil {
			return 0, err
		}

		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return 0, err
		}

		if first {
			lastDate = day
			first = false
		}

		if float64(completed)/float64(total) < 0.8 {
			break
		}
		if int(lastDate.Sub(day).Hours()/24) > 1 {
			break
		}

		streak++
		lastDate = day
	}

	if err := rows.Err(); err != nil {
		return 0, err
	}

	return streak, nil
}
