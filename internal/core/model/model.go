package model

import (
	"time"
)

// Employee is a roster entry. Admins are employees with the IsAdmin flag set;
// the bot matches people to roster entries by their chat username.
type Employee struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"fullname"`
	Position   string `json:"position"`
	Department string `json:"department"`
	IsAdmin    bool   `json:"isAdmin"`
	ChatID     int64  `json:"chatId,omitempty"`
}

// OfficeLocation is the single configured office coordinate. There is exactly
// one active record; setting a new location overwrites it.
type OfficeLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeoPoint is a raw coordinate shared by an employee.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AttendanceRecord is one employee-day of attendance. WorkDate is the calendar
// day of ComingTime in the office timezone and is the dedup key: at most one
// record may exist per (EmployeeID, WorkDate).
type AttendanceRecord struct {
	ID          int64      `json:"id"`
	EmployeeID  int64      `json:"employeeId"`
	WorkDate    string     `json:"workDate"`
	ComingTime  time.Time  `json:"comingTime"`
	LeavingTime *time.Time `json:"leavingTime,omitempty"`
	Reason      *string    `json:"reason,omitempty"`
}

// Sentinel fills report cells that have no value (no record, still in office).
const Sentinel = "➖"

// ReasonInOffice is the reason cell for on-site check-ins.
const ReasonInOffice = "in-office"

// ReportRow is one line of an attendance report, already rendered to the
// office timezone. The chat table and the spreadsheet export are both built
// from the same rows so the two can never drift apart.
type ReportRow struct {
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date"`
	Label        string `json:"label"`
	Arrival      string `json:"arrival"`
	Departure    string `json:"departure"`
	Reason       string `json:"reason"`
	Hours        string `json:"hours"`
}
