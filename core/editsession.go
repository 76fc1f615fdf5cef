package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"axiapac.com/timesheets/utils"

	"gorm.io/gorm"
)

// ErrValidationFailed is returned by Save when the grid violates an hour cap;
// the violations themselves go to the session's message sink.
var ErrValidationFailed = errors.New("timesheet validation failed")

// ErrTimesheetNotFound is returned by Init when an explicitly requested
// timesheet does not exist.
var ErrTimesheetNotFound = errors.New("timesheet not found")

// CallerContext is the per-session view this package consumes from the
// surrounding service: the authenticated employee and a selected-timesheet
// slot that survives between requests.
type CallerContext interface {
	Employee() *Employee
	SelectedTimesheetID() uint // 0 = none
	SetSelectedTimesheetID(id uint)
}

// EditSession drives editing of a single timesheet. It projects the rows into
// editable string grids (hours and notes), validates the per-day and weekly
// caps, and writes edited values back through SaveTimesheet. The grids are
// private to one caller and never shared.
//
// A session has two states: it starts uninitialized and becomes loaded after
// Init; every other method requires the loaded state.
type EditSession struct {
	caller CallerContext
	report func(string)

	sheet *Timesheet

	// HoursGrid holds one 7-cell line per row, Saturday..Friday, empty
	// string meaning zero. NotesGrid is its per-row companion.
	HoursGrid [][]string
	NotesGrid []string
}

// NewEditSession creates an uninitialized session. report receives one
// human-readable message per validation violation; nil discards them.
func NewEditSession(caller CallerContext, report func(string)) *EditSession {
	if report == nil {
		report = func(string) {}
	}
	return &EditSession{caller: caller, report: report}
}

// Init loads the target timesheet and builds the grids: an explicit id wins,
// then the caller's previously selected timesheet, and failing both a fresh
// current-week timesheet is created. The loaded sheet is padded to MinRows
// and published back to the caller's selected slot.
func (s *EditSession) Init(db *gorm.DB, timesheetID uint) error {
	if s.sheet != nil {
		return nil
	}

	switch {
	case timesheetID != 0:
		ts, err := FindTimesheetByID(db, timesheetID)
		if err != nil {
			return err
		}
		if ts == nil {
			return fmt.Errorf("timesheet %d: %w", timesheetID, ErrTimesheetNotFound)
		}
		s.sheet = ts
	case s.caller.SelectedTimesheetID() != 0:
		ts, err := FindTimesheetByID(db, s.caller.SelectedTimesheetID())
		if err != nil {
			return err
		}
		if ts != nil {
			s.sheet = ts
			break
		}
		fallthrough
	default:
		emp := s.caller.Employee()
		if emp == nil {
			return errors.New("no authenticated employee")
		}
		ts, err := CreateTimesheet(db, emp.EmployeeId, utils.WeekEnding(time.Now()))
		if err != nil {
			return err
		}
		s.sheet = ts
	}

	for len(s.sheet.Rows) < MinRows {
		s.sheet.AddRow()
	}
	s.caller.SetSelectedTimesheetID(s.sheet.TimesheetId)

	s.HoursGrid = s.HoursGrid[:0]
	s.NotesGrid = s.NotesGrid[:0]
	for i := range s.sheet.Rows {
		row := &s.sheet.Rows[i]
		week := make([]string, DaysInWeek)
		for d, v := range row.Hours() {
			if v != 0 {
				week[d] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		s.HoursGrid = append(s.HoursGrid, week)
		s.NotesGrid = append(s.NotesGrid, utils.Deref(row.Notes))
	}
	return nil
}

func (s *EditSession) Sheet() *Timesheet {
	return s.sheet
}

// AddRow appends one blank row to the timesheet and both grids.
func (s *EditSession) AddRow() {
	s.sheet.AddRow()
	s.HoursGrid = append(s.HoursGrid, make([]string, DaysInWeek))
	s.NotesGrid = append(s.NotesGrid, "")
}

// Validate re-parses every hours cell and checks the caps: no day may total
// more than 24 hours across all rows and the week may not exceed 168. Each
// violation is reported as one message. Cells are summed at their stated
// value, not the clamped one, so a single over-the-cap entry is rejected
// rather than silently trimmed. The underlying rows are not touched.
func (s *EditSession) Validate() bool {
	const tolerance = 1e-6

	var dayTotals [DaysInWeek]float64
	for _, week := range s.HoursGrid {
		for d := 0; d < DaysInWeek && d < len(week); d++ {
			dayTotals[d] += rawHour(week[d])
		}
	}

	valid := true
	weekTotal := 0.0
	for d, total := range dayTotals {
		weekTotal += total
		if total > MaxDayHours+tolerance {
			valid = false
			s.report(fmt.Sprintf("Total for %s exceeds 24 hours (%.1f h).", DayNames[d], total))
		}
	}
	if weekTotal > MaxWeekHours+tolerance {
		valid = false
		s.report(fmt.Sprintf("Weekly total exceeds 168 hours (%.1f h).", weekTotal))
	}
	return valid
}

// Save validates, copies the grids back into the rows and persists through
// SaveTimesheet. A failed validation aborts before anything is written.
func (s *EditSession) Save(db *gorm.DB) error {
	if s.sheet == nil {
		return errors.New("edit session not initialized")
	}
	if !s.Validate() {
		return ErrValidationFailed
	}

	for i := range s.sheet.Rows {
		row := &s.sheet.Rows[i]
		hours := make([]float64, DaysInWeek)
		for d := 0; d < DaysInWeek && d < len(s.HoursGrid[i]); d++ {
			hours[d] = parseHour(s.HoursGrid[i][d])
		}
		row.SetHours(hours)
		if note := s.NotesGrid[i]; note != "" {
			row.Notes = utils.Ptr(note)
		} else {
			row.Notes = nil
		}
	}
	return SaveTimesheet(db, s.sheet)
}

// EditableAt reports whether the timesheet may still be edited as of today:
// past weeks become read-only once their Friday has gone by.
func (s *EditSession) EditableAt(today time.Time) bool {
	if s.sheet == nil || s.sheet.EndDate.IsZero() {
		return false
	}
	return !s.sheet.EndDate.Before(utils.WeekEnding(today))
}

func (s *EditSession) Editable() bool {
	return s.EditableAt(time.Now())
}

// WeekNumber is the ISO week of the sheet's end date, 0 when unloaded.
func (s *EditSession) WeekNumber() int {
	if s.sheet == nil || s.sheet.EndDate.IsZero() {
		return 0
	}
	_, week := s.sheet.EndDate.ISOWeek()
	return week
}

// parseHour turns one grid cell into a valid hour value: blank or unparseable
// is 0, everything else is clamped to [0,24] and rounded to a tenth.
func parseHour(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return ClampHour(v)
}

// rawHour parses a cell for validation: same blank/garbage/negative handling
// as parseHour but without the 24-hour cap, so Validate sees the value as
// entered.
func rawHour(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || v <= 0 {
		return 0
	}
	return math.Round(v*10) / 10
}
