package core

import (
	"fmt"

	"gorm.io/gorm"
)

// Credential pairs a username with its stored password value. The link to
// Employee is by case-insensitive username, not a foreign key, and the
// password is an opaque equality-comparable secret.
type Credential struct {
	CredentialId uint   `gorm:"primaryKey;autoIncrement"`
	UserName     string `gorm:"size:64;index"`
	Password     string `gorm:"size:128"`
}

func (Credential) TableName() string {
	return "credentials"
}

// VerifyCredentials reports whether a stored credential matches the pair:
// username case-insensitively, password by exact comparison. The password
// check happens here rather than in SQL so collation can never loosen it.
// Storage errors degrade to false.
func VerifyCredentials(db *gorm.DB, userName, password string) bool {
	var creds []Credential
	err := db.Where("LOWER(UserName) = LOWER(?)", userName).Find(&creds).Error
	if err != nil {
		return false
	}
	for _, c := range creds {
		if c.Password == password {
			return true
		}
	}
	return false
}

// ChangePassword updates the stored credential for the username. No matching
// credential is not an error.
func ChangePassword(db *gorm.DB, userName, newPassword string) error {
	err := db.Model(&Credential{}).
		Where("LOWER(UserName) = LOWER(?)", userName).
		Update("Password", newPassword).Error
	if err != nil {
		return fmt.Errorf("failed to change password for %s: %w", userName, err)
	}
	return nil
}

// Authenticate resolves the employee for a valid username/password pair. Any
// failure, including storage errors, collapses to nil: a caller can never
// tell a bad username from a bad password.
func Authenticate(db *gorm.DB, userName, password string) *Employee {
	if !VerifyCredentials(db, userName, password) {
		return nil
	}
	emp, err := FindEmployeeByUserName(db, userName)
	if err != nil {
		return nil
	}
	return emp
}
