package core

import (
	"fmt"
	"time"
)

const dayKeyFormat = "2006-01-02"

// Calendar resolves timestamps to calendar days in the office timezone.
// Every "today" comparison in the system goes through it: check-ins are
// stored in UTC, but the day they belong to is decided by office wall-clock
// time so that marking just before local midnight keeps working.
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the office timezone, e.g. "Asia/Almaty".
func NewCalendar(tz string) (*Calendar, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading office timezone %q: %w", tz, err)
	}
	return &Calendar{loc: loc}, nil
}

// DayKey returns the calendar day of t in the office timezone, formatted
// yyyy-mm-dd. This is the dedup key for "already marked today".
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(dayKeyFormat)
}

// Today is the current day key.
func (c *Calendar) Today() string {
	return c.DayKey(time.Now())
}

// Clock renders the wall-clock time of t in the office timezone.
func (c *Calendar) Clock(t time.Time) string {
	return t.In(c.loc).Format("15:04")
}

// DayLabel renders a short human label for a date, e.g. "Mon 02.06".
func (c *Calendar) DayLabel(d time.Time) string {
	return d.In(c.loc).Format("Mon 02.01")
}

// WeekRange returns the work week containing ref: exactly five consecutive
// dates starting Monday. The work week is Monday through Friday, not the
// calendar week.
func (c *Calendar) WeekRange(ref time.Time) []time.Time {
	local := ref.In(c.loc)

	offset := int(local.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // Sunday belongs to the week that just ended
	}
	monday := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, c.loc)

	days := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}
	return days
}

// MonthRange returns every calendar date of the given month in order
// (28 to 31 entries).
func (c *Calendar) MonthRange(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)

	var days []time.Time
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// CurrentMonth returns the year and month of the current office-local date.
func (c *Calendar) CurrentMonth() (int, time.Month) {
	now := time.Now().In(c.loc)
	return now.Year(), now.Month()
}
