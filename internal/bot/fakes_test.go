package bot

import (
	"context"
	"time"

	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/repository"
)

// sentMessage records one outbound send for assertions.
type sentMessage struct {
	kind     string
	chatID   int64
	text     string
	filename string
}

// recordingSender captures everything the scenes send instead of talking to
// Telegram.
type recordingSender struct {
	sent []sentMessage
}

func (r *recordingSender) SendText(chatID int64, text string) error {
	r.sent = append(r.sent, sentMessage{kind: "text", chatID: chatID, text: text})
	return nil
}

func (r *recordingSender) SendHTML(chatID int64, html string) error {
	r.sent = append(r.sent, sentMessage{kind: "html", chatID: chatID, text: html})
	return nil
}

func (r *recordingSender) SendKeyboard(chatID int64, text string, _ [][]string) error {
	r.sent = append(r.sent, sentMessage{kind: "keyboard", chatID: chatID, text: text})
	return nil
}

func (r *recordingSender) SendLocationRequest(chatID int64, text, _ string) error {
	r.sent = append(r.sent, sentMessage{kind: "location-request", chatID: chatID, text: text})
	return nil
}

func (r *recordingSender) SendInlineButtons(chatID int64, text string, _ [][]Button) error {
	r.sent = append(r.sent, sentMessage{kind: "inline", chatID: chatID, text: text})
	return nil
}

func (r *recordingSender) SendDocument(chatID int64, filename string, _ []byte) error {
	r.sent = append(r.sent, sentMessage{kind: "document", chatID: chatID, filename: filename})
	return nil
}

func (r *recordingSender) reset() {
	r.sent = nil
}

func (r *recordingSender) texts() []string {
	out := make([]string, 0, len(r.sent))
	for _, m := range r.sent {
		out = append(out, m.text)
	}
	return out
}

// fakeRepo is an in-memory Repository for scene tests. Dispatching is
// sequential here, so no locking is needed.
type fakeRepo struct {
	nextEmpID int64
	nextRecID int64
	employees []model.Employee
	records   []model.AttendanceRecord
	office    *model.OfficeLocation

	// When set, ListEmployees fails with this error.
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextEmpID: 1, nextRecID: 1}
}

func (f *fakeRepo) addEmployee(e model.Employee) model.Employee {
	e.ID = f.nextEmpID
	f.nextEmpID++
	f.employees = append(f.employees, e)
	return e
}

func (f *fakeRepo) FindEmployeeByUsername(_ context.Context, username string) (*model.Employee, error) {
	for _, e := range f.employees {
		if e.Username == username {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetEmployee(_ context.Context, id int64) (*model.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListEmployees(_ context.Context) ([]model.Employee, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Employee, len(f.employees))
	copy(out, f.employees)
	return out, nil
}

func (f *fakeRepo) CreateEmployee(_ context.Context, e model.Employee) (int64, error) {
	return f.addEmployee(e).ID, nil
}

func (f *fakeRepo) DeleteEmployee(_ context.Context, id int64) (bool, error) {
	for i, e := range f.employees {
		if e.ID == id {
			f.employees = append(f.employees[:i], f.employees[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SetEmployeeChatID(_ context.Context, id int64, chatID int64) error {
	for i := range f.employees {
		if f.employees[i].ID == id {
			f.employees[i].ChatID = chatID
		}
	}
	return nil
}

func (f *fakeRepo) ListAdmins(_ context.Context) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range f.employees {
		if e.IsAdmin {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAdmin(_ context.Context, username string) (int64, error) {
	for i := range f.employees {
		if f.employees[i].Username == username {
			f.employees[i].IsAdmin = true
			return f.employees[i].ID, nil
		}
	}
	return f.addEmployee(model.Employee{Username: username, IsAdmin: true}).ID, nil
}

func (f *fakeRepo) DeleteAdmin(_ context.Context, id int64) (bool, error) {
	for i := range f.employees {
		if f.employees[i].ID == id && f.employees[i].IsAdmin {
			f.employees[i].IsAdmin = false
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetOfficeLocation(_ context.Context) (*model.OfficeLocation, error) {
	if f.office == nil {
		return nil, nil
	}
	loc := *f.office
	return &loc, nil
}

func (f *fakeRepo) SetOfficeLocation(_ context.Context, lat, lon float64) error {
	f.office = &model.OfficeLocation{Latitude: lat, Longitude: lon}
	return nil
}

func (f *fakeRepo) FindAttendanceOn(_ context.Context, employeeID int64, workDate string) (*model.AttendanceRecord, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.WorkDate == workDate {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) InsertCheckIn(_ context.Context, employeeID int64, comingTime time.Time, workDate string, reason *string) (int64, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.WorkDate == workDate {
			return 0, repository.ErrDuplicateCheckIn
		}
	}
	rec := model.AttendanceRecord{
		ID:         f.nextRecID,
		EmployeeID: employeeID,
		WorkDate:   workDate,
		ComingTime: comingTime,
		Reason:     reason,
	}
	f.nextRecID++
	f.records = append(f.records, rec)
	return rec.ID, nil
}

func (f *fakeRepo) SetCheckOutTime(_ context.Context, recordID int64, leavingTime time.Time) (bool, error) {
	for i := range f.records {
		if f.records[i].ID == recordID && f.records[i].LeavingTime == nil {
			t := leavingTime
			f.records[i].LeavingTime = &t
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListAttendanceBetween(_ context.Context, employeeID int64, fromDate, toDate string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.WorkDate >= fromDate && rec.WorkDate <= toDate {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAttendanceOn(_ context.Context, workDate string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		if rec.WorkDate == workDate {
			out = append(out, rec)
		}
	}
	return out, nil
}
