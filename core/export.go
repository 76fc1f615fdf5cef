package core

import (
	"fmt"

	"axiapac.com/timesheets/utils"

	"github.com/xuri/excelize/v2"
)

// ExportTimesheetXlsx renders one timesheet as a spreadsheet: a line per row
// with the Saturday..Friday hours, a per-row total column and a per-day total
// line at the bottom.
func ExportTimesheetXlsx(ts *Timesheet, owner *Employee) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Timesheet"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	setCell := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	if owner != nil {
		if err := setCell(1, 1, fmt.Sprintf("%s (#%d)", owner.Name, owner.EmpNumber)); err != nil {
			return nil, err
		}
	}
	if err := setCell(1, 2, "Week ending"); err != nil {
		return nil, err
	}
	if err := setCell(2, 2, ts.EndDate.Format("2006-01-02")); err != nil {
		return nil, err
	}

	const headerRow = 4
	headers := []string{"Line", "Project", "Work Package"}
	headers = append(headers, DayNames[:]...)
	headers = append(headers, "Total", "Notes")
	for i, h := range headers {
		if err := setCell(i+1, headerRow, h); err != nil {
			return nil, err
		}
	}

	var dayTotals [DaysInWeek]float64
	for i := range ts.Rows {
		row := &ts.Rows[i]
		line := headerRow + 1 + i

		if err := setCell(1, line, row.LineNo); err != nil {
			return nil, err
		}
		if row.ProjectId != 0 {
			if err := setCell(2, line, row.ProjectId); err != nil {
				return nil, err
			}
		}
		if err := setCell(3, line, row.WorkPackageId); err != nil {
			return nil, err
		}

		rowTotal := 0.0
		for d, v := range row.Hours() {
			dayTotals[d] += v
			rowTotal += v
			if v != 0 {
				if err := setCell(4+d, line, v); err != nil {
					return nil, err
				}
			}
		}
		if err := setCell(4+DaysInWeek, line, rowTotal); err != nil {
			return nil, err
		}
		if err := setCell(5+DaysInWeek, line, utils.Deref(row.Notes)); err != nil {
			return nil, err
		}
	}

	totalLine := headerRow + 1 + len(ts.Rows)
	if err := setCell(3, totalLine, "Total"); err != nil {
		return nil, err
	}
	weekTotal := 0.0
	for d, v := range dayTotals {
		weekTotal += v
		if err := setCell(4+d, totalLine, v); err != nil {
			return nil, err
		}
	}
	if err := setCell(4+DaysInWeek, totalLine, weekTotal); err != nil {
		return nil, err
	}

	return f, nil
}
