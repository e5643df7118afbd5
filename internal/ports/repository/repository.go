package repository

import (
	"context"
	"errors"
	"time"

	"attendance.bot/internal/core/model"
)

// ErrDuplicateCheckIn is returned by InsertCheckIn when a record for the same
// employee and work date already exists. The unique index on
// (employee_id, work_date) makes the check-then-act sequence safe: two racing
// check-ins can both pass the "not marked today" read, but only one insert wins.
var ErrDuplicateCheckIn = errors.New("attendance already recorded for this work date")

// Repository contract. Lookups that can legitimately find nothing return
// (nil, nil) rather than an error.
type Repository interface {
	FindEmployeeByUsername(ctx context.Context, username string) (*model.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, e model.Employee) (int64, error)
	DeleteEmployee(ctx context.Context, id int64) (bool, error)
	SetEmployeeChatID(ctx context.Context, id int64, chatID int64) error

	ListAdmins(ctx context.Context) ([]model.Employee, error)
	CreateAdmin(ctx context.Context, username string) (int64, error)
	DeleteAdmin(ctx context.Context, id int64) (bool, error)

	GetOfficeLocation(ctx context.Context) (*model.OfficeLocation, error)
	SetOfficeLocation(ctx context.Context, lat, lon float64) error

	FindAttendanceOn(ctx context.Context, employeeID int64, workDate string) (*model.AttendanceRecord, error)
	InsertCheckIn(ctx context.Context, employeeID int64, comingTime time.Time, workDate string, reason *string) (int64, error)
	SetCheckOutTime(ctx context.Context, recordID int64, leavingTime time.Time) (bool, error)
	ListAttendanceBetween(ctx context.Context, employeeID int64, fromDate, toDate string) ([]model.AttendanceRecord, error)
	ListAttendanceOn(ctx context.Context, workDate string) ([]model.AttendanceRecord, error)
}
