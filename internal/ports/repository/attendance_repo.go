package repository

import (
	"context"
	"database/sql"
	"time"

	"attendance.bot/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AttendanceRepository is the concrete implementation for a PostgreSQL database.
//
// Schema expectations: employees(id, username unique, fullname, position,
// department, is_admin, chat_id), office_location(id=1, latitude, longitude)
// and attendance(id, employee_id, work_date, coming_time, leaving_time,
// reason) with a unique index on (employee_id, work_date).
type AttendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository create new instance
func NewAttendanceRepository(db *sql.DB) Repository {
	return &AttendanceRepository{DB: db}
}

// FindEmployeeByUsername looks a roster entry up by chat username.
func (r *AttendanceRepository) FindEmployeeByUsername(ctx context.Context, username string) (*model.Employee, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.username", username))

	query := `SELECT id, username, fullname, position, department, is_admin, COALESCE(chat_id, 0)
              FROM employees
              WHERE username = $1`

	e := &model.Employee{}
	err := r.DB.QueryRowContext(ctx, query, username).Scan(
		&e.ID, &e.Username, &e.FullName, &e.Position, &e.Department, &e.IsAdmin, &e.ChatID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEmployee fetches a roster entry by id.
func (r *AttendanceRepository) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	query := `SELECT id, username, fullname, position, department, is_admin, COALESCE(chat_id, 0)
              FROM employees
              WHERE id = $1`

	e := &model.Employee{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Username, &e.FullName, &e.Position, &e.Department, &e.IsAdmin, &e.ChatID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEmployees returns the roster in insertion order. Report grids rely on
// this order being stable.
func (r *AttendanceRepository) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	query := `SELECT id, username, fullname, position, department, is_admin, COALESCE(chat_id, 0)
              FROM employees
              ORDER BY id ASC`

	return r.scanEmployees(ctx, query)
}

// CreateEmployee inserts a new roster entry.
func (r *AttendanceRepository) CreateEmployee(ctx context.Context, e model.Employee) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.username", e.Username))

	var id int64
	query := `INSERT INTO employees (username, fullname, position, department, is_admin)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, e.Username, e.FullName, e.Position, e.Department, e.IsAdmin).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteEmployee removes a roster entry. Attendance history is kept.
func (r *AttendanceRepository) DeleteEmployee(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetEmployeeChatID records the chat the employee last talked from.
func (r *AttendanceRepository) SetEmployeeChatID(ctx context.Context, id int64, chatID int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE employees SET chat_id = $1 WHERE id = $2`, chatID, id)
	return err
}

// ListAdmins returns roster entries with the admin flag set.
func (r *AttendanceRepository) ListAdmins(ctx context.Context) ([]model.Employee, error) {
	query := `SELECT id, username, fullname, position, department, is_admin, COALESCE(chat_id, 0)
              FROM employees
              WHERE is_admin = TRUE
              ORDER BY id ASC`

	return r.scanEmployees(ctx, query)
}

// CreateAdmin grants admin rights to a username. An existing roster entry is
// promoted in place; an unknown username gets a minimal roster row.
func (r *AttendanceRepository) CreateAdmin(ctx context.Context, username string) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.username", username))

	var id int64
	query := `INSERT INTO employees (username, is_admin)
              VALUES ($1, TRUE)
              ON CONFLICT (username) DO UPDATE SET is_admin = TRUE
              RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, username).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteAdmin revokes admin rights; the roster entry itself stays.
func (r *AttendanceRepository) DeleteAdmin(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE employees SET is_admin = FALSE WHERE id = $1 AND is_admin = TRUE`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetOfficeLocation reads the singleton office coordinate.
func (r *AttendanceRepository) GetOfficeLocation(ctx context.Context) (*model.OfficeLocation, error) {
	loc := &model.OfficeLocation{}
	err := r.DB.QueryRowContext(ctx, `SELECT latitude, longitude FROM office_location WHERE id = 1`).
		Scan(&loc.Latitude, &loc.Longitude)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// SetOfficeLocation overwrites the singleton office coordinate.
func (r *AttendanceRepository) SetOfficeLocation(ctx context.Context, lat, lon float64) error {
	query := `INSERT INTO office_location (id, latitude, longitude)
              VALUES (1, $1, $2)
              ON CONFLICT (id) DO UPDATE SET latitude = $1, longitude = $2`

	_, err := r.DB.ExecContext(ctx, query, lat, lon)
	return err
}

// FindAttendanceOn returns the record for one employee-day, if any.
func (r *AttendanceRepository) FindAttendanceOn(ctx context.Context, employeeID int64, workDate string) (*model.AttendanceRecord, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.employee_id", employeeID))

	query := `SELECT id, employee_id, work_date, coming_time, leaving_time, reason
              FROM attendance
              WHERE employee_id = $1 AND work_date = $2`

	rec := &model.AttendanceRecord{}
	err := r.DB.QueryRowContext(ctx, query, employeeID, workDate).Scan(
		&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.ComingTime, &rec.LeavingTime, &rec.Reason,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// InsertCheckIn creates the employee-day record. The insert is conditioned on
// the unique (employee_id, work_date) index; a lost race comes back as
// ErrDuplicateCheckIn and leaves no partial row behind.
func (r *AttendanceRepository) InsertCheckIn(ctx context.Context, employeeID int64, comingTime time.Time, workDate string, reason *string) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.employee_id", employeeID))

	var id int64
	query := `INSERT INTO attendance (employee_id, work_date, coming_time, reason)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (employee_id, work_date) DO NOTHING
              RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, employeeID, workDate, comingTime, reason).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrDuplicateCheckIn
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SetCheckOutTime sets the leaving time once. The conditional update reports
// false when the record already has a leaving time, so a racing second
// check-out cannot overwrite the first.
func (r *AttendanceRepository) SetCheckOutTime(ctx context.Context, recordID int64, leavingTime time.Time) (bool, error) {
	query := `UPDATE attendance
              SET leaving_time = $1
              WHERE id = $2 AND leaving_time IS NULL`

	res, err := r.DB.ExecContext(ctx, query, leavingTime, recordID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListAttendanceBetween returns one employee's records for an inclusive
// work-date range, oldest first.
func (r *AttendanceRepository) ListAttendanceBetween(ctx context.Context, employeeID int64, fromDate, toDate string) ([]model.AttendanceRecord, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.employee_id", employeeID))

	query := `SELECT id, employee_id, work_date, coming_time, leaving_time, reason
              FROM attendance
              WHERE employee_id = $1 AND work_date >= $2 AND work_date <= $3
              ORDER BY work_date ASC`

	return r.scanAttendance(ctx, query, employeeID, fromDate, toDate)
}

// ListAttendanceOn returns every record for one work date.
func (r *AttendanceRepository) ListAttendanceOn(ctx context.Context, workDate string) ([]model.AttendanceRecord, error) {
	query := `SELECT id, employee_id, work_date, coming_time, leaving_time, reason
              FROM attendance
              WHERE work_date = $1
              ORDER BY employee_id ASC`

	return r.scanAttendance(ctx, query, workDate)
}

func (r *AttendanceRepository) scanEmployees(ctx context.Context, query string, args ...any) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Username, &e.FullName, &e.Position, &e.Department, &e.IsAdmin, &e.ChatID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *AttendanceRepository) scanAttendance(ctx context.Context, query string, args ...any) ([]model.AttendanceRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.ComingTime, &rec.LeavingTime, &rec.Reason); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
