package core

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MinRows is the number of blank rows a timesheet starts with. Rows may be
// appended, but the first five are never implicitly removed.
const MinRows = 5

type Timesheet struct {
	TimesheetId uint      `gorm:"primaryKey;autoIncrement"`
	EmployeeId  uint      `gorm:"index;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Overtime    float64   `gorm:"type:decimal(5,1);default:0"`
	Flextime    float64   `gorm:"type:decimal(5,1);default:0"`
	CreatedAt   time.Time

	// Owner is consulted by SaveTimesheet when EmployeeId is still zero; it
	// is resolved through the directory, auto-creating if needed.
	Owner *Employee `gorm:"-"`

	// Rows are order-significant and loaded explicitly, sorted by LineNo.
	Rows []TimesheetRow `gorm:"-"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}

type TimesheetRow struct {
	RowId         uint    `gorm:"primaryKey;autoIncrement"`
	TimesheetId   uint    `gorm:"index;not null"`
	LineNo        int     `gorm:"not null"`
	ProjectId     int     `gorm:"default:0"`
	WorkPackageId string  `gorm:"size:32"`
	PackedHours   int64   `gorm:"not null;default:0"`
	Notes         *string `gorm:"size:256"`
}

func (TimesheetRow) TableName() string {
	return "timesheet_rows"
}

func (r *TimesheetRow) Hours() []float64 {
	return UnpackHours(r.PackedHours)
}

func (r *TimesheetRow) SetHours(hours []float64) {
	r.PackedHours = PackHours(hours)
}

func blankRow(lineNo int) TimesheetRow {
	return TimesheetRow{LineNo: lineNo, WorkPackageId: ""}
}

// AddRow appends a blank row after the existing ones.
func (t *Timesheet) AddRow() *TimesheetRow {
	t.Rows = append(t.Rows, blankRow(len(t.Rows)+1))
	return &t.Rows[len(t.Rows)-1]
}

// CreateTimesheet inserts a header with zeroed overtime/flextime and its five
// blank rows as one unit of work.
func CreateTimesheet(db *gorm.DB, employeeID uint, endDate time.Time) (*Timesheet, error) {
	ts := &Timesheet{EmployeeId: employeeID, EndDate: endDate}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ts).Error; err != nil {
			return fmt.Errorf("failed to insert timesheet header: %w", err)
		}
		for i := 0; i < MinRows; i++ {
			row := blankRow(i + 1)
			row.TimesheetId = ts.TimesheetId
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert row %d: %w", i+1, err)
			}
			ts.Rows = append(ts.Rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func loadRows(db *gorm.DB, ts *Timesheet) error {
	ts.Rows = nil
	return db.Where("TimesheetId = ?", ts.TimesheetId).
		Order("LineNo").
		Find(&ts.Rows).Error
}

func FindTimesheetByID(db *gorm.DB, id uint) (*Timesheet, error) {
	var ts Timesheet
	result := db.First(&ts, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if err := loadRows(db, &ts); err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	return &ts, nil
}

// FindTimesheetsByEmployee returns every timesheet the employee owns, newest
// week first, rows loaded.
func FindTimesheetsByEmployee(db *gorm.DB, employeeID uint) ([]Timesheet, error) {
	var sheets []Timesheet
	err := db.Where("EmployeeId = ?", employeeID).
		Order("EndDate DESC").
		Find(&sheets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timesheets: %w", err)
	}
	for i := range sheets {
		if err := loadRows(db, &sheets[i]); err != nil {
			return nil, fmt.Errorf("failed to load rows: %w", err)
		}
	}
	return sheets, nil
}

func ListTimesheets(db *gorm.DB) ([]Timesheet, error) {
	var sheets []Timesheet
	err := db.Order("EmployeeId").Order("EndDate DESC").Find(&sheets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	for i := range sheets {
		if err := loadRows(db, &sheets[i]); err != nil {
			return nil, fmt.Errorf("failed to load rows: %w", err)
		}
	}
	return sheets, nil
}

// SaveTimesheet persists a timesheet with the upsert-then-replace protocol:
// upsert the header, delete every stored row, re-insert the current row
// sequence with line numbers 1..N. The whole operation commits or rolls back
// as one; a failure leaves the stored header and rows untouched.
//
// Replacing all rows sidesteps diffing added/removed/reordered rows, which is
// acceptable at this row count. There is no locking across concurrent editors
// of the same timesheet: concurrent saves race last-writer-wins.
func SaveTimesheet(db *gorm.DB, ts *Timesheet) error {
	if ts == nil {
		return errors.New("timesheet is required")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if ts.EmployeeId == 0 {
			if ts.Owner == nil {
				return errors.New("timesheet has no owner")
			}
			key, err := ResolveEmployeeKey(tx, ts.Owner)
			if err != nil {
				return err
			}
			ts.EmployeeId = key
		}

		if ts.TimesheetId == 0 {
			if err := tx.Create(ts).Error; err != nil {
				return fmt.Errorf("failed to insert timesheet header: %w", err)
			}
		} else {
			err := tx.Model(&Timesheet{}).
				Where("TimesheetId = ?", ts.TimesheetId).
				Updates(map[string]interface{}{
					"EndDate":  ts.EndDate,
					"Overtime": ts.Overtime,
					"Flextime": ts.Flextime,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update timesheet header: %w", err)
			}
		}

		if err := tx.Where("TimesheetId = ?", ts.TimesheetId).Delete(&TimesheetRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear rows: %w", err)
		}

		for i := range ts.Rows {
			row := &ts.Rows[i]
			row.RowId = 0
			row.TimesheetId = ts.TimesheetId
			row.LineNo = i + 1
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to insert row %d: %w", i+1, err)
			}
		}
		return nil
	})
}
