package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.user_id, a.date, a.month, a.start_time, a.end_time,
	a.location_name, a.location_latitude, a.location_longitude,
	a.status, a.created_at, a.updated_at,
	u.name AS user_name, u.department_id AS user_department_id`

// dayParam renders a calendar day in the date's own location, so the stored
// date never shifts with the session time zone.
func dayParam(date time.Time) string {
	return date.Format("2006-01-02")
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att       attendance.Attendance
		locName   *string
		locLat    *float64
		locLon    *float64
		status    string
		userName  *string
		userDepID *string
	)
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &att.Month, &att.StartTime, &att.EndTime,
		&locName, &locLat, &locLon,
		&status, &att.CreatedAt, &att.UpdatedAt,
		&userName, &userDepID,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	att.Status = attendance.Status(status)
	att.UserName = userName
	att.UserDepartmentID = userDepID
	if locName != nil && locLat != nil && locLon != nil {
		att.Location = &geo.OfficeLocation{Name: *locName, Latitude: *locLat, Longitude: *locLon}
	}
	return att, nil
}

func locationParams(loc *geo.OfficeLocation) (*string, *float64, *float64) {
	if loc == nil {
		return nil, nil, nil
	}
	return &loc.Name, &loc.Latitude, &loc.Longitude
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	name, lat, lon := locationParams(newAttendance.Location)
	query := `
		INSERT INTO attendances (
			user_id, date, month, start_time, end_time,
			location_name, location_latitude, location_longitude, status
		) VALUES (
			$1, $2::date, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.UserID,
		dayParam(newAttendance.Date),
		newAttendance.Month,
		newAttendance.StartTime,
		newAttendance.EndTime,
		name, lat, lon,
		string(newAttendance.Status),
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceConflict
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	name, lat, lon := locationParams(att.Location)
	query := `
		UPDATE attendances SET
			start_time = COALESCE(start_time, $2),
			end_time = COALESCE($3, end_time),
			location_name = COALESCE($4, location_name),
			location_latitude = COALESCE($5, location_latitude),
			location_longitude = COALESCE($6, location_longitude),
			status = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING start_time, end_time, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID, att.StartTime, att.EndTime, name, lat, lon, string(att.Status),
	).Scan(&att.StartTime, &att.EndTime, &att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

func (a *attendanceRepository) getByUserAndDate(ctx context.Context, userID string, date time.Time, lock bool) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		  AND a.date = $2::date
		LIMIT 1
	`
	if lock {
		query += " FOR UPDATE OF a"
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, dayParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No attendance yet for that day
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	return a.getByUserAndDate(ctx, userID, date, false)
}

// GetByUserAndDateForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	return a.getByUserAndDate(ctx, userID, date, true)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		  AND a.date BETWEEN $2::date AND $3::date
		ORDER BY a.date DESC
	`

	rows, err := q.Query(ctx, query, userID, dayParam(from), dayParam(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	return collectAttendances(rows)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.DepartmentID != nil {
		baseWhere += fmt.Sprintf(" AND u.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}

	// Date range filters
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY a.date DESC, u.name ASC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := max(filter.Page, 1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	attendances := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}
	return attendances, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
