package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookRoundTrip(t *testing.T) {
	header := []string{"Employee", "Date", "Arrival", "Departure", "Reason", "Hours"}
	rows := [][]string{
		{"Alice A.", "2026-06-01", "09:00", "17:30", "in-office", "8.50"},
		{"Alice A.", "2026-06-02", "➖", "➖", "➖", "➖"},
	}

	data, err := Workbook(header, rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, got, 3, "header plus one row per entry")
	assert.Equal(t, header, got[0])
	assert.Equal(t, rows[0], got[1])
	assert.Equal(t, rows[1], got[2])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "attendance_week_2026-08-29.xlsx", Filename("week", "2026-08-29"))
}
