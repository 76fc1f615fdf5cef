package core

import (
	"time"

	"axiapac.com/timesheets/utils"

	"gorm.io/gorm"
)

// SelectCurrentTimesheet picks the timesheet most relevant to today: the one
// whose week-ending date is the fewest days away, with present/future weeks
// beating past weeks at equal distance. Beyond that, the first match in input
// order wins, so the result is deterministic for a fixed slice ordering.
// Returns nil for an empty input.
func SelectCurrentTimesheet(sheets []Timesheet, today time.Time) *Timesheet {
	if len(sheets) == 0 {
		return nil
	}

	best := &sheets[0]
	bestDist, bestPast := endDateDistance(best, today)

	for i := 1; i < len(sheets); i++ {
		dist, past := endDateDistance(&sheets[i], today)
		if dist < bestDist || (dist == bestDist && bestPast && !past) {
			best = &sheets[i]
			bestDist, bestPast = dist, past
		}
	}
	return best
}

func endDateDistance(ts *Timesheet, today time.Time) (dist int, past bool) {
	days := utils.DaysBetween(ts.EndDate, today)
	if days < 0 {
		return -days, true
	}
	return days, false
}

// CurrentTimesheetForEmployee composes the fetch and the selection. Nil when
// the employee has no timesheets.
func CurrentTimesheetForEmployee(db *gorm.DB, employeeID uint, today time.Time) (*Timesheet, error) {
	sheets, err := FindTimesheetsByEmployee(db, employeeID)
	if err != nil {
		return nil, err
	}
	return SelectCurrentTimesheet(sheets, today), nil
}
