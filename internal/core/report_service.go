package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/repository"
)

// ReportService joins employees, date ranges and attendance rows into dense
// report grids. Every date (or employee) in scope gets a row; missing values
// are sentinel-filled, never omitted.
type ReportService struct {
	repo repository.Repository
	cal  *Calendar
}

// NewReportService creates the report aggregator.
func NewReportService(repo repository.Repository, cal *Calendar) *ReportService {
	return &ReportService{repo: repo, cal: cal}
}

// Today builds one row per roster employee for the current office day, in
// roster order. Employees without a record get sentinel time columns.
func (s *ReportService) Today(ctx context.Context) ([]model.ReportRow, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	today := s.cal.Today()
	records, err := s.repo.ListAttendanceOn(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("listing today's attendance: %w", err)
	}

	byEmployee := make(map[int64]model.AttendanceRecord, len(records))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = rec
	}

	rows := make([]model.ReportRow, 0, len(employees))
	for _, emp := range employees {
		name := displayName(emp)
		row := model.ReportRow{
			EmployeeName: name,
			Date:         today,
			Label:        name,
			Arrival:      model.Sentinel,
			Departure:    model.Sentinel,
			Reason:       model.Sentinel,
			Hours:        model.Sentinel,
		}
		if rec, ok := byEmployee[emp.ID]; ok {
			s.fillRecord(&row, rec)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TodayFor builds the single-row grid for one employee's current day.
func (s *ReportService) TodayFor(ctx context.Context, employeeID int64) ([]model.ReportRow, error) {
	return s.dateGrid(ctx, employeeID, []time.Time{time.Now()})
}

// Week builds the Monday-to-Friday grid for one employee: exactly five rows,
// chronological, sentinel-filled where no record exists.
func (s *ReportService) Week(ctx context.Context, employeeID int64) ([]model.ReportRow, error) {
	return s.dateGrid(ctx, employeeID, s.cal.WeekRange(time.Now()))
}

// Month builds the dense grid over every date of the current office month.
func (s *ReportService) Month(ctx context.Context, employeeID int64) ([]model.ReportRow, error) {
	year, month := s.cal.CurrentMonth()
	return s.dateGrid(ctx, employeeID, s.cal.MonthRange(year, month))
}

func (s *ReportService) dateGrid(ctx context.Context, employeeID int64, dates []time.Time) ([]model.ReportRow, error) {
	emp, err := s.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("loading employee %d: %w", employeeID, err)
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}

	from := s.cal.DayKey(dates[0])
	to := s.cal.DayKey(dates[len(dates)-1])
	records, err := s.repo.ListAttendanceBetween(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing attendance %s..%s: %w", from, to, err)
	}

	byDate := make(map[string]model.AttendanceRecord, len(records))
	for _, rec := range records {
		byDate[rec.WorkDate] = rec
	}

	name := displayName(*emp)
	rows := make([]model.ReportRow, 0, len(dates))
	for _, d := range dates {
		key := s.cal.DayKey(d)
		row := model.ReportRow{
			EmployeeName: name,
			Date:         key,
			Label:        s.cal.DayLabel(d),
			Arrival:      model.Sentinel,
			Departure:    model.Sentinel,
			Reason:       model.Sentinel,
			Hours:        model.Sentinel,
		}
		if rec, ok := byDate[key]; ok {
			s.fillRecord(&row, rec)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ReportService) fillRecord(row *model.ReportRow, rec model.AttendanceRecord) {
	row.Arrival = s.cal.Clock(rec.ComingTime)
	if rec.Reason != nil {
		row.Reason = *rec.Reason
	} else {
		row.Reason = model.ReasonInOffice
	}
	if rec.LeavingTime != nil {
		row.Departure = s.cal.Clock(*rec.LeavingTime)
		row.Hours = fmt.Sprintf("%.2f", rec.LeavingTime.Sub(rec.ComingTime).Hours())
	}
}

func displayName(e model.Employee) string {
	if e.FullName != "" {
		return e.FullName
	}
	return e.Username
}

// RenderTable renders rows as the fixed-width pipe table used in chat replies.
// firstColumn names the leading column ("Employee" for today grids, "Day" for
// date grids). The caller wraps the result in a <pre> block.
func RenderTable(firstColumn string, rows []model.ReportRow) string {
	headers := []string{firstColumn, "Arrived", "Left", "Hours"}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.Label, row.Arrival, row.Departure, row.Hours})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range cells {
		for i, c := range row {
			if n := len([]rune(c)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeRule := func() {
		for _, w := range widths {
			b.WriteString("+")
			b.WriteString(strings.Repeat("-", w+2))
		}
		b.WriteString("+\n")
	}
	writeRow := func(row []string) {
		for i, c := range row {
			pad := widths[i] - len([]rune(c))
			b.WriteString("| ")
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(" ")
		}
		b.WriteString("|\n")
	}

	writeRule()
	writeRow(headers)
	writeRule()
	for _, row := range cells {
		writeRow(row)
	}
	writeRule()
	return b.String()
}

// ExportRows serializes the same row set for the spreadsheet sink: an ordered
// header plus one data row per entry.
func ExportRows(rows []model.ReportRow) ([]string, [][]string) {
	header := []string{"Employee", "Date", "Arrival", "Departure", "Reason", "Hours"}
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{row.EmployeeName, row.Date, row.Arrival, row.Departure, row.Reason, row.Hours})
	}
	return header, data
}
