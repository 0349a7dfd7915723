package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownRole(t *testing.T) {
	for _, r := range []string{RoleSales, RoleCourseManager, RoleTrainer, RoleStudent, RoleAdmin} {
		assert.True(t, KnownRole(r), r)
	}
	assert.True(t, KnownRole("  TRAINER "))
	assert.False(t, KnownRole("intern"))
	assert.False(t, KnownRole(""))
}

func TestUserHasRole(t *testing.T) {
	u := User{Roles: []string{RoleStudent, RoleSales}}
	assert.True(t, u.HasRole("sales"))
	assert.True(t, u.HasRole("Student"))
	assert.False(t, u.HasRole(RoleTrainer))

	admin := User{Roles: []string{RoleAdmin}}
	assert.True(t, admin.HasRole(RoleCourseManager), "admin passes every role check")

	nobody := User{}
	assert.False(t, nobody.HasRole(RoleStudent))
}
