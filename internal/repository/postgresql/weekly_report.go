package postgresql

import (
	"context"
	"fmt"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/weeklyreport"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
)

type weeklyReportRepositoryImpl struct {
	db *database.DB
}

func NewWeeklyReportRepository(db *database.DB) weeklyreport.WeeklyReportRepository {
	return &weeklyReportRepositoryImpl{db: db}
}

// Create implements weeklyreport.WeeklyReportRepository.
func (r *weeklyReportRepositoryImpl) Create(ctx context.Context, report weeklyreport.WeeklyReport) (weeklyreport.WeeklyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO weekly_reports (user_id, report, week_ending, submitted_at, month, year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		report.UserID, report.Report, report.WeekEnding, report.SubmittedAt, report.Month, report.Year,
	).Scan(&report.ID)
	if err != nil {
		return weeklyreport.WeeklyReport{}, fmt.Errorf("failed to create weekly report: %w", err)
	}

	return report, nil
}

// List implements weeklyreport.WeeklyReportRepository.
func (r *weeklyReportRepositoryImpl) List(ctx context.Context, filter weeklyreport.ListFilter) ([]weeklyreport.WeeklyReport, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	where := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		where += fmt.Sprintf(" AND w.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND u.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Month != "" {
		where += fmt.Sprintf(" AND w.month = $%d", argIdx)
		args = append(args, filter.Month)
		argIdx++
	}
	if filter.Year != 0 {
		where += fmt.Sprintf(" AND w.year = $%d", argIdx)
		args = append(args, filter.Year)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (w.report ILIKE $%d OR u.name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
	}

	query := `
		SELECT w.id, w.user_id, w.report, w.week_ending, w.submitted_at, w.month, w.year,
		       u.name, u.department_id
		FROM weekly_reports w
		JOIN users u ON u.id = w.user_id
		WHERE ` + where + `
		ORDER BY w.submitted_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly reports: %w", err)
	}
	defer rows.Close()

	reports := make([]weeklyreport.WeeklyReport, 0)
	for rows.Next() {
		var rep weeklyreport.WeeklyReport
		if err := rows.Scan(
			&rep.ID, &rep.UserID, &rep.Report, &rep.WeekEnding, &rep.SubmittedAt, &rep.Month, &rep.Year,
			&rep.UserName, &rep.UserDepartmentID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan weekly report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weekly reports: %w", err)
	}

	return reports, nil
}
