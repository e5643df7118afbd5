package core

import (
	"context"
	"sync"
	"time"

	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/repository"
)

// memRepo is an in-memory Repository used by the engine and report tests.
// It enforces the same uniqueness guarantees the real schema provides: one
// attendance row per (employee, work date) and one-shot leaving times.
type memRepo struct {
	mu        sync.Mutex
	nextEmpID int64
	nextRecID int64
	employees []model.Employee
	records   []model.AttendanceRecord
	office    *model.OfficeLocation
}

func newMemRepo() *memRepo {
	return &memRepo{nextEmpID: 1, nextRecID: 1}
}

func (m *memRepo) addEmployee(e model.Employee) model.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextEmpID
	m.nextEmpID++
	m.employees = append(m.employees, e)
	return e
}

func (m *memRepo) FindEmployeeByUsername(_ context.Context, username string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Username == username {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memRepo) GetEmployee(_ context.Context, id int64) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memRepo) ListEmployees(_ context.Context) ([]model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Employee, len(m.employees))
	copy(out, m.employees)
	return out, nil
}

func (m *memRepo) CreateEmployee(_ context.Context, e model.Employee) (int64, error) {
	created := m.addEmployee(e)
	return created.ID, nil
}

func (m *memRepo) DeleteEmployee(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.employees {
		if e.ID == id {
			m.employees = append(m.employees[:i], m.employees[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) SetEmployeeChatID(_ context.Context, id int64, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.employees {
		if m.employees[i].ID == id {
			m.employees[i].ChatID = chatID
		}
	}
	return nil
}

func (m *memRepo) ListAdmins(_ context.Context) ([]model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Employee
	for _, e := range m.employees {
		if e.IsAdmin {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepo) CreateAdmin(_ context.Context, username string) (int64, error) {
	m.mu.Lock()
	for i := range m.employees {
		if m.employees[i].Username == username {
			m.employees[i].IsAdmin = true
			id := m.employees[i].ID
			m.mu.Unlock()
			return id, nil
		}
	}
	m.mu.Unlock()
	created := m.addEmployee(model.Employee{Username: username, IsAdmin: true})
	return created.ID, nil
}

func (m *memRepo) DeleteAdmin(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.employees {
		if m.employees[i].ID == id && m.employees[i].IsAdmin {
			m.employees[i].IsAdmin = false
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) GetOfficeLocation(_ context.Context) (*model.OfficeLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.office == nil {
		return nil, nil
	}
	loc := *m.office
	return &loc, nil
}

func (m *memRepo) SetOfficeLocation(_ context.Context, lat, lon float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.office = &model.OfficeLocation{Latitude: lat, Longitude: lon}
	return nil
}

func (m *memRepo) FindAttendanceOn(_ context.Context, employeeID int64, workDate string) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.WorkDate == workDate {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memRepo) InsertCheckIn(_ context.Context, employeeID int64, comingTime time.Time, workDate string, reason *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.WorkDate == workDate {
			return 0, repository.ErrDuplicateCheckIn
		}
	}
	rec := model.AttendanceRecord{
		ID:         m.nextRecID,
		EmployeeID: employeeID,
		WorkDate:   workDate,
		ComingTime: comingTime,
		Reason:     reason,
	}
	m.nextRecID++
	m.records = append(m.records, rec)
	return rec.ID, nil
}

func (m *memRepo) SetCheckOutTime(_ context.Context, recordID int64, leavingTime time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == recordID && m.records[i].LeavingTime == nil {
			t := leavingTime
			m.records[i].LeavingTime = &t
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListAttendanceBetween(_ context.Context, employeeID int64, fromDate, toDate string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.WorkDate >= fromDate && rec.WorkDate <= toDate {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRepo) ListAttendanceOn(_ context.Context, workDate string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range m.records {
		if rec.WorkDate == workDate {
			out = append(out, rec)
		}
	}
	return out, nil
}
