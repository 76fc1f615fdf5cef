package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEmployeeAssignsNumber(t *testing.T) {
	db := openTestDB(t)

	alice := Employee{UserName: "alice", Name: "Alice"}
	require.NoError(t, AddEmployee(db, &alice))
	assert.Equal(t, 1, alice.EmpNumber)
	assert.Equal(t, RoleUser, alice.Role)

	bob := Employee{UserName: "bob", Name: "Bob"}
	require.NoError(t, AddEmployee(db, &bob))
	assert.Equal(t, 2, bob.EmpNumber)

	// A default credential is provisioned alongside.
	assert.True(t, VerifyCredentials(db, "alice", DefaultPassword))
	assert.True(t, VerifyCredentials(db, "bob", DefaultPassword))
}

func TestAddEmployeeConflicts(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AddEmployee(db, &Employee{EmpNumber: 7, UserName: "alice", Name: "Alice"}))

	tests := []struct {
		name     string
		emp      Employee
		expected error
	}{
		{name: "Same username", emp: Employee{UserName: "alice", Name: "Other"}, expected: ErrDuplicateUserName},
		{name: "Same username different case", emp: Employee{UserName: "ALICE", Name: "Other"}, expected: ErrDuplicateUserName},
		{name: "Same number", emp: Employee{EmpNumber: 7, UserName: "carol", Name: "Carol"}, expected: ErrDuplicateEmpNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AddEmployee(db, &tt.emp)
			assert.ErrorIs(t, err, tt.expected)

			// The failed insert must leave no partial rows behind.
			var count int64
			require.NoError(t, db.Model(&Employee{}).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestDeleteEmployee(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, EnsureAdminExists(db))
	require.NoError(t, AddEmployee(db, &Employee{UserName: "alice", Name: "Alice"}))

	alice, err := FindEmployeeByUserName(db, "alice")
	require.NoError(t, err)
	require.NotNil(t, alice)

	require.NoError(t, DeleteEmployee(db, alice))

	gone, err := FindEmployeeByUserName(db, "alice")
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.False(t, VerifyCredentials(db, "alice", DefaultPassword))
}

func TestDeleteAdminIsNoOp(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, EnsureAdminExists(db))

	for _, userName := range []string{"admin", "ADMIN", "Admin"} {
		admin, err := FindEmployeeByUserName(db, userName)
		require.NoError(t, err)
		require.NotNil(t, admin)

		require.NoError(t, DeleteEmployee(db, admin))
	}

	still, err := FindEmployeeByUserName(db, AdminUserName)
	require.NoError(t, err)
	assert.NotNil(t, still)
	assert.True(t, VerifyCredentials(db, AdminUserName, "admin123"))
}

func TestResolveEmployeeKey(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AddEmployee(db, &Employee{UserName: "alice", Name: "Alice"}))

	t.Run("Existing by number", func(t *testing.T) {
		alice, err := FindEmployeeByUserName(db, "alice")
		require.NoError(t, err)

		key, err := ResolveEmployeeKey(db, &Employee{EmpNumber: alice.EmpNumber})
		require.NoError(t, err)
		assert.Equal(t, alice.EmployeeId, key)
	})

	t.Run("Existing by username", func(t *testing.T) {
		alice, err := FindEmployeeByUserName(db, "alice")
		require.NoError(t, err)

		key, err := ResolveEmployeeKey(db, &Employee{UserName: "ALICE"})
		require.NoError(t, err)
		assert.Equal(t, alice.EmployeeId, key)
	})

	t.Run("Unknown number auto-creates", func(t *testing.T) {
		emp := Employee{EmpNumber: 42}
		key, err := ResolveEmployeeKey(db, &emp)
		require.NoError(t, err)
		assert.NotZero(t, key)
		assert.Equal(t, key, emp.EmployeeId)

		created, err := FindEmployeeByNumber(db, 42)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "User 42", created.Name)
		assert.Equal(t, "user42", created.UserName)
		assert.Equal(t, RoleUser, created.Role)
	})

	t.Run("Blank key auto-creates with next number", func(t *testing.T) {
		emp := Employee{UserName: "dave"}
		_, err := ResolveEmployeeKey(db, &emp)
		require.NoError(t, err)
		assert.Equal(t, 43, emp.EmpNumber)
	})
}

func TestNextEmpNumber(t *testing.T) {
	db := openTestDB(t)

	next, err := NextEmpNumber(db)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	require.NoError(t, AddEmployee(db, &Employee{EmpNumber: 10, UserName: "alice", Name: "Alice"}))

	next, err = NextEmpNumber(db)
	require.NoError(t, err)
	assert.Equal(t, 11, next)
}

func TestGetAdministrator(t *testing.T) {
	db := openTestDB(t)

	none, err := GetAdministrator(db)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, AddEmployee(db, &Employee{EmpNumber: 5, UserName: "boss", Name: "Boss", Role: RoleAdmin}))
	require.NoError(t, AddEmployee(db, &Employee{EmpNumber: 9, UserName: "deputy", Name: "Deputy", Role: RoleAdmin}))

	admin, err := GetAdministrator(db)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "boss", admin.UserName)
}

func TestEnsureAdminExists(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureAdminExists(db))
	require.NoError(t, EnsureAdminExists(db)) // idempotent

	var count int64
	require.NoError(t, db.Model(&Employee{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	admin, err := FindEmployeeByUserName(db, AdminUserName)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, 0, admin.EmpNumber)
}
