package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Role(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleLibrarian.IsStaff())
	assert.False(t, RolePatron.IsStaff())
	assert.False(t, Role(0).IsStaff())

	assert.True(t, RolePatron.Valid())
	assert.False(t, Role(4).Valid())
	assert.False(t, Role(0).Valid())

	assert.Equal(t, "Admin", RoleAdmin.String())
	assert.Equal(t, "Librarian", RoleLibrarian.String())
	assert.Equal(t, "Patron", RolePatron.String())
	assert.Equal(t, "Unknown", Role(99).String())

	// IsStaff とクエリ用ID列の整合
	assert.ElementsMatch(t, []int{1, 2}, StaffRoleIDs())
}
