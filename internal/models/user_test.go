// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, false},
		{Role(""), false},
		{Role("ADMIN"), false},
	}

	for _, tt := range tests {
		u := &User{Role: tt.role}
		assert.Equal(t, tt.want, u.IsAdmin(), "role=%q", tt.role)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleEditor.Valid())
	assert.False(t, Role("author").Valid())
	assert.False(t, Role("").Valid())
}

func TestUserNeeds2FASetup(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"

	assert.True(t, (&User{}).Needs2FASetup())
	assert.True(t, (&User{TOTPSecret: &secret}).Needs2FASetup())
	assert.False(t, (&User{TOTPSecret: &secret, TOTPEnabled: true}).Needs2FASetup())
}
