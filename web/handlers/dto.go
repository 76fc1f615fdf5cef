package handlers

import (
	"axiapac.com/timesheets/core"
	"axiapac.com/timesheets/utils"
	"axiapac.com/timesheets/web/common"
)

type EmployeeDTO struct {
	ID        uint   `json:"id"`
	EmpNumber int    `json:"empNumber"`
	UserName  string `json:"userName"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

func NewEmployeeDTO(e *core.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        e.EmployeeId,
		EmpNumber: e.EmpNumber,
		UserName:  e.UserName,
		Name:      e.Name,
		Role:      e.Role,
	}
}

type TimesheetRowDTO struct {
	LineNo        int       `json:"lineNo"`
	ProjectID     int       `json:"projectId"`
	WorkPackageID string    `json:"workPackageId"`
	Hours         []float64 `json:"hours"`
	Notes         string    `json:"notes"`
}

type TimesheetDTO struct {
	ID         uint              `json:"id"`
	EmployeeID uint              `json:"employeeId"`
	EndDate    common.DateOnly   `json:"endDate"`
	Overtime   float64           `json:"overtime"`
	Flextime   float64           `json:"flextime"`
	Rows       []TimesheetRowDTO `json:"rows"`
}

func NewTimesheetDTO(ts *core.Timesheet) TimesheetDTO {
	dto := TimesheetDTO{
		ID:         ts.TimesheetId,
		EmployeeID: ts.EmployeeId,
		EndDate:    common.DateOnly{Time: ts.EndDate},
		Overtime:   ts.Overtime,
		Flextime:   ts.Flextime,
		Rows:       make([]TimesheetRowDTO, 0, len(ts.Rows)),
	}
	for i := range ts.Rows {
		row := &ts.Rows[i]
		dto.Rows = append(dto.Rows, TimesheetRowDTO{
			LineNo:        row.LineNo,
			ProjectID:     row.ProjectId,
			WorkPackageID: row.WorkPackageId,
			Hours:         row.Hours(),
			Notes:         utils.Deref(row.Notes),
		})
	}
	return dto
}

// EditGridDTO is the editable projection a conversation exchanges with its
// client: string cells, blank meaning zero.
type EditGridDTO struct {
	EditID     string     `json:"editId"`
	Timesheet  uint       `json:"timesheetId"`
	WeekNumber int        `json:"weekNumber"`
	Editable   bool       `json:"editable"`
	HoursGrid  [][]string `json:"hoursGrid"`
	NotesGrid  []string   `json:"notesGrid"`
}

func NewEditGridDTO(editID string, session *core.EditSession) EditGridDTO {
	return EditGridDTO{
		EditID:     editID,
		Timesheet:  session.Sheet().TimesheetId,
		WeekNumber: session.WeekNumber(),
		Editable:   session.Editable(),
		HoursGrid:  session.HoursGrid,
		NotesGrid:  session.NotesGrid,
	}
}
