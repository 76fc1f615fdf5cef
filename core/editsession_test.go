package core

import (
	"testing"
	"time"

	"axiapac.com/timesheets/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	employee *Employee
	selected uint
}

func (c *fakeCaller) Employee() *Employee { return c.employee }

func (c *fakeCaller) SelectedTimesheetID() uint { return c.selected }

func (c *fakeCaller) SetSelectedTimesheetID(id uint) { c.selected = id }

func editFixture(t *testing.T) (caller *fakeCaller, messages *[]string, session *EditSession) {
	t.Helper()

	caller = &fakeCaller{employee: &Employee{EmployeeId: 1, UserName: "alice"}}
	messages = &[]string{}
	session = NewEditSession(caller, func(msg string) {
		*messages = append(*messages, msg)
	})
	return caller, messages, session
}

func TestEditSessionInitExplicit(t *testing.T) {
	db := openTestDB(t)
	ts, err := CreateTimesheet(db, 1, utils.MustParseDate("2026-08-28"))
	require.NoError(t, err)
	ts.Rows[0].SetHours([]float64{0, 0, 7.5, 0, 0, 0, 0})
	ts.Rows[0].Notes = utils.Ptr("maintenance")
	require.NoError(t, SaveTimesheet(db, ts))

	caller, _, session := editFixture(t)
	require.NoError(t, session.Init(db, ts.TimesheetId))

	assert.Equal(t, ts.TimesheetId, caller.selected)
	require.Len(t, session.HoursGrid, MinRows)
	require.Len(t, session.NotesGrid, MinRows)

	// Zero cells project as blank, non-zero as their shortest decimal form.
	assert.Equal(t, []string{"", "", "7.5", "", "", "", ""}, session.HoursGrid[0])
	assert.Equal(t, "maintenance", session.NotesGrid[0])
	assert.Equal(t, []string{"", "", "", "", "", "", ""}, session.HoursGrid[1])
}

func TestEditSessionInitMissingID(t *testing.T) {
	db := openTestDB(t)
	_, _, session := editFixture(t)

	assert.ErrorIs(t, session.Init(db, 999), ErrTimesheetNotFound)
}

func TestEditSessionInitCreatesCurrentWeek(t *testing.T) {
	db := openTestDB(t)
	caller, _, session := editFixture(t)

	require.NoError(t, session.Init(db, 0))

	sheet := session.Sheet()
	require.NotNil(t, sheet)
	assert.Equal(t, utils.WeekEnding(time.Now()), sheet.EndDate)
	assert.Equal(t, sheet.TimesheetId, caller.selected)
	assert.Len(t, session.HoursGrid, MinRows)

	stored, err := FindTimesheetByID(db, sheet.TimesheetId)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestEditSessionInitStaleSelection(t *testing.T) {
	db := openTestDB(t)
	caller, _, session := editFixture(t)
	caller.selected = 999 // points at a deleted timesheet

	require.NoError(t, session.Init(db, 0))

	sheet := session.Sheet()
	require.NotNil(t, sheet)
	assert.NotEqual(t, uint(999), sheet.TimesheetId)
	assert.Equal(t, sheet.TimesheetId, caller.selected)
}

func TestEditSessionInitUsesSelection(t *testing.T) {
	db := openTestDB(t)
	ts, err := CreateTimesheet(db, 1, utils.MustParseDate("2026-08-28"))
	require.NoError(t, err)

	caller, _, session := editFixture(t)
	caller.selected = ts.TimesheetId

	require.NoError(t, session.Init(db, 0))
	assert.Equal(t, ts.TimesheetId, session.Sheet().TimesheetId)
}

func TestEditSessionAddRow(t *testing.T) {
	db := openTestDB(t)
	ts, err := CreateTimesheet(db, 1, utils.MustParseDate("2026-08-28"))
	require.NoError(t, err)

	_, _, session := editFixture(t)
	require.NoError(t, session.Init(db, ts.TimesheetId))

	session.AddRow()
	assert.Len(t, session.Sheet().Rows, MinRows+1)
	assert.Len(t, session.HoursGrid, MinRows+1)
	assert.Len(t, session.NotesGrid, MinRows+1)
}

func TestEditSessionValidate(t *testing.T) {
	db := openTestDB(t)
	ts, err := CreateTimesheet(db, 1, utils.MustParseDate("2026-08-28"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		fill     func(s *EditSession)
		valid    bool
		messages int
	}{
		{
			name:  "Empty grid",
			fill:  func(s *EditSession) {},
			valid: true,
		},
		{
			name: "Full week at the cap",
			fill: func(s *EditSession) {
				for d := 0; d < DaysInWeek; d++ {
					s.HoursGrid[0][d] = "24"
				}
			},
			valid: true,
		},
		{
			name: "Single cell over the day cap",
			fill: func(s *EditSession) {
				s.HoursGrid[0][Sat] = "25"
			},
			valid:    false,
			messages: 1,
		},
		{
			name: "Day over across rows",
			fill: func(s *EditSession) {
				s.HoursGrid[0][Mon] = "13"
				s.HoursGrid[1][Mon] = "12"
			},
			valid:    false,
			messages: 1,
		},
		{
			name: "Two days over",
			fill: func(s *EditSession) {
				s.HoursGrid[0][Mon] = "13"
				s.HoursGrid[1][Mon] = "12"
				s.HoursGrid[0][Tue] = "13"
				s.HoursGrid[1][Tue] = "12"
			},
			valid:    false,
			messages: 2,
		},
		{
			name: "Every cap blown",
			fill: func(s *EditSession) {
				for r := 0; r < 2; r++ {
					for d := 0; d < DaysInWeek; d++ {
						s.HoursGrid[r][d] = "24"
					}
				}
			},
			valid:    false,
			messages: DaysInWeek + 1, // seven day messages plus the weekly one
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, messages, session := editFixture(t)
			require.NoError(t, session.Init(db, ts.TimesheetId))
			tt.fill(session)

			assert.Equal(t, tt.valid, session.Validate())
			assert.Len(t, *messages, tt.messages)
		})
	}
}

func TestEditSessionSaveRejectsInvalid(t *testing.T) {
	db := openTestDB(t)
	ts, err := CreateTimesheet(db, 1, utils.MustParseDate("2026-08-28"))
	require.NoError(t, err)

	_, messages, session := editFixture(t)
	require.NoError(t, session.Init(db, ts.TimesheetId))

	session.HoursGrid[0][Wed] = "25"
	session.HoursGrid[0][Mon] = "8"

	err = session.Save(db)
	require.ErrorIs(t, err, ErrValidationFailed)
	require.Len(t, *messages, 1)
	assert.Contains(t, (*messages)[0], "Wed")

	// Nothing reached storage, not even the valid Monday cell.
	stored, err := FindTimesheetByID(db, ts.TimesheetId)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Rows[0].PackedHours)
}

func TestEditSessionSave(t *testing.T) {
	db := openTestDB(t)
	ts, err := CreateTimesheet(db, 1, utils.MustParseDate("2026-08-28"))
	require.NoError(t, err)

	_, _, session := editFixture(t)
	require.NoError(t, session.Init(db, ts.TimesheetId))

	session.HoursGrid[0][Mon] = "7.5"
	session.HoursGrid[0][Tue] = " 8 " // whitespace tolerated
	session.HoursGrid[1][Fri] = "bogus"
	session.NotesGrid[0] = "site visit"

	require.NoError(t, session.Save(db))

	stored, err := FindTimesheetByID(db, ts.TimesheetId)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 7.5, 8, 0, 0, 0}, stored.Rows[0].Hours())
	assert.Equal(t, int64(0), stored.Rows[1].PackedHours)
	assert.Equal(t, "site visit", utils.Deref(stored.Rows[0].Notes))
	assert.Nil(t, stored.Rows[1].Notes)
}

func TestEditSessionEditableAt(t *testing.T) {
	friday := utils.MustParseDate("2026-08-28")

	tests := []struct {
		name     string
		today    time.Time
		expected bool
	}{
		{name: "During the week", today: utils.MustParseDate("2026-08-24"), expected: true},
		{name: "On the end date", today: friday, expected: true},
		{name: "Saturday after", today: utils.MustParseDate("2026-08-29"), expected: false},
		{name: "Weeks later", today: utils.MustParseDate("2026-10-01"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &EditSession{sheet: &Timesheet{EndDate: friday}}
			assert.Equal(t, tt.expected, session.EditableAt(tt.today))
		})
	}
}

func TestEditSessionWeekNumber(t *testing.T) {
	session := &EditSession{sheet: &Timesheet{EndDate: utils.MustParseDate("2026-08-28")}}
	assert.Equal(t, 35, session.WeekNumber())

	assert.Equal(t, 0, (&EditSession{}).WeekNumber())
}
