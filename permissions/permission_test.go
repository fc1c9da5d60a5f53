package permissions_test

import (
	"cowork/permissions"
	"cowork/shared/constant"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)
}

func TestPermission_Allows(t *testing.T) {
	adminOnly := permissions.Permission{Permissions: []string{constant.RoleAdmin}}

	assert.True(t, adminOnly.Allows(constant.RoleAdmin))
	assert.False(t, adminOnly.Allows(constant.RoleUser))
	assert.True(t, permissions.Permission{Skip: true}.Allows(constant.Empty))
	assert.True(t, permissions.Permission{}.Allows(constant.RoleUser))
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
	}{
		{name: "login is public", path: "/v1/auth/login", method: http.MethodPost, wantSkip: true},
		{name: "list trailing slash", path: "/v1/workspaces/", method: http.MethodGet, wantSkip: true},
		{name: "availability is public", path: "/v1/workspaces/available", method: http.MethodGet, wantSkip: true},
		{name: "create workspace is admin only", path: "/v1/workspaces/", method: http.MethodPost, wantRoles: []string{constant.RoleAdmin}},
		{name: "book as user", path: "/v1/bookings", method: http.MethodPost, wantRoles: []string{constant.RoleUser, constant.RoleAdmin}},
		{name: "list all bookings is admin only", path: "/v1/bookings", method: http.MethodGet, wantRoles: []string{constant.RoleAdmin}},
		{name: "unknown route", path: "/v1/unknown", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, permission.Skip)
			assert.Equal(t, tt.wantRoles, permission.Permissions)
		})
	}
}
