package core

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	// The seed administrator account. It can never be deleted.
	AdminUserName = "admin"

	// Initial password provisioned for every new employee.
	DefaultPassword = "password"
)

var (
	ErrDuplicateUserName  = errors.New("username already exists")
	ErrDuplicateEmpNumber = errors.New("employee number already exists")
)

type Employee struct {
	EmployeeId uint   `gorm:"primaryKey;autoIncrement"`
	EmpNumber  int    `gorm:"uniqueIndex"`
	UserName   string `gorm:"size:64;uniqueIndex"`
	Name       string `gorm:"size:128"`
	Role       string `gorm:"size:8;default:USER"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

func FindEmployeeByID(db *gorm.DB, id uint) (*Employee, error) {
	var emp Employee
	result := db.First(&emp, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

// Usernames match case-insensitively everywhere in this package.
func FindEmployeeByUserName(db *gorm.DB, userName string) (*Employee, error) {
	var emp Employee
	result := db.Where("LOWER(UserName) = LOWER(?)", userName).First(&emp)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

func FindEmployeeByNumber(db *gorm.DB, empNumber int) (*Employee, error) {
	var emp Employee
	result := db.Where("EmpNumber = ?", empNumber).First(&emp)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

func ListEmployees(db *gorm.DB) ([]Employee, error) {
	var employees []Employee
	if err := db.Order("EmpNumber").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// GetAdministrator returns the lowest-numbered ADMIN employee. Role
// uniqueness is not enforced, so the ordering keeps the answer stable.
func GetAdministrator(db *gorm.DB) (*Employee, error) {
	var emp Employee
	result := db.Where("Role = ?", RoleAdmin).Order("EmpNumber").First(&emp)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

// NextEmpNumber computes one more than the highest assigned employee number,
// or 1 when none exist.
func NextEmpNumber(db *gorm.DB) (int, error) {
	var next int
	err := db.Model(&Employee{}).
		Select("COALESCE(MAX(EmpNumber), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute next employee number: %w", err)
	}
	return next, nil
}

// ResolveEmployeeKey maps an employee to its storage key, creating a minimal
// directory record when none exists yet. Save paths depend on this never
// failing with "not found", so absence is not an error here.
func ResolveEmployeeKey(db *gorm.DB, emp *Employee) (uint, error) {
	if emp == nil {
		return 0, errors.New("employee is required")
	}
	if emp.EmployeeId != 0 {
		return emp.EmployeeId, nil
	}

	var existing *Employee
	var err error
	if emp.EmpNumber != 0 {
		existing, err = FindEmployeeByNumber(db, emp.EmpNumber)
	} else {
		existing, err = FindEmployeeByUserName(db, emp.UserName)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve employee: %w", err)
	}
	if existing != nil {
		emp.EmployeeId = existing.EmployeeId
		return existing.EmployeeId, nil
	}

	record := Employee{
		EmpNumber: emp.EmpNumber,
		UserName:  emp.UserName,
		Name:      emp.Name,
		Role:      RoleUser,
	}
	if record.EmpNumber == 0 {
		next, err := NextEmpNumber(db)
		if err != nil {
			return 0, err
		}
		record.EmpNumber = next
	}
	if record.Name == "" {
		record.Name = fmt.Sprintf("User %d", record.EmpNumber)
	}
	if record.UserName == "" {
		record.UserName = fmt.Sprintf("user%d", record.EmpNumber)
	}

	if err := db.Create(&record).Error; err != nil {
		return 0, fmt.Errorf("failed to create employee record: %w", err)
	}
	emp.EmployeeId = record.EmployeeId
	emp.EmpNumber = record.EmpNumber
	return record.EmployeeId, nil
}

// AddEmployee inserts a new employee plus its default credential. A zero
// EmpNumber is assigned from the next free number inside the transaction.
func AddEmployee(db *gorm.DB, emp *Employee) error {
	if emp == nil {
		return errors.New("employee is required")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		existing, err := FindEmployeeByUserName(tx, emp.UserName)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateUserName, emp.UserName)
		}

		if emp.EmpNumber != 0 {
			byNumber, err := FindEmployeeByNumber(tx, emp.EmpNumber)
			if err != nil {
				return err
			}
			if byNumber != nil {
				return fmt.Errorf("%w: %d", ErrDuplicateEmpNumber, emp.EmpNumber)
			}
		} else {
			next, err := NextEmpNumber(tx)
			if err != nil {
				return err
			}
			emp.EmpNumber = next
		}

		if emp.Role == "" {
			emp.Role = RoleUser
		}

		if err := tx.Create(emp).Error; err != nil {
			return fmt.Errorf("failed to insert employee: %w", err)
		}

		cred := Credential{UserName: emp.UserName, Password: DefaultPassword}
		if err := tx.Create(&cred).Error; err != nil {
			return fmt.Errorf("failed to provision credential: %w", err)
		}
		return nil
	})
}

// DeleteEmployee removes an employee and its credential. Deleting the seed
// administrator is a silent no-op.
func DeleteEmployee(db *gorm.DB, emp *Employee) error {
	if emp == nil {
		return nil
	}
	if strings.EqualFold(emp.UserName, AdminUserName) {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		target := tx.Where("LOWER(UserName) = LOWER(?)", emp.UserName)
		if emp.EmpNumber != 0 {
			target = tx.Where("EmpNumber = ?", emp.EmpNumber)
		}
		if err := target.Delete(&Employee{}).Error; err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		if err := tx.Where("LOWER(UserName) = LOWER(?)", emp.UserName).Delete(&Credential{}).Error; err != nil {
			return fmt.Errorf("failed to delete credential: %w", err)
		}
		return nil
	})
}

// UpdateEmployee rewrites name, number and role for the record matching the
// given username.
func UpdateEmployee(db *gorm.DB, emp *Employee) error {
	return db.Model(&Employee{}).
		Where("LOWER(UserName) = LOWER(?)", emp.UserName).
		Updates(map[string]interface{}{
			"Name":      emp.Name,
			"EmpNumber": emp.EmpNumber,
			"Role":      emp.Role,
		}).Error
}

// EnsureAdminExists seeds the directory with the administrator account on an
// empty database.
func EnsureAdminExists(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Employee{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count employees: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := Employee{
			EmpNumber: 0,
			UserName:  AdminUserName,
			Name:      "System",
			Role:      RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed administrator: %w", err)
		}
		cred := Credential{UserName: AdminUserName, Password: "admin123"}
		if err := tx.Create(&cred).Error; err != nil {
			return fmt.Errorf("failed to seed administrator credential: %w", err)
		}
		return nil
	})
}
