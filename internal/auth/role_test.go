package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bandbridge/backend/internal/auth"
)

func TestValidate(t *testing.T) {
	for _, role := range auth.KnownRoles() {
		require.NoError(t, auth.Validate(role))
	}

	err := auth.Validate("superuser")
	var invalid *auth.InvalidRoleError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "superuser", invalid.Role)
}

func TestAuthorize_Allowed(t *testing.T) {
	require.NoError(t, auth.Authorize(auth.RoleClient, auth.RoleClient))
	require.NoError(t, auth.Authorize(auth.RoleBandMember, auth.RoleClient, auth.RoleBandMember))
}

func TestAuthorize_Unauthorized(t *testing.T) {
	cases := []struct {
		name    string
		role    auth.Role
		allowed []auth.Role
	}{
		{name: "client not in band list", role: auth.RoleClient, allowed: []auth.Role{auth.RoleBandMember}},
		{name: "band member not in client list", role: auth.RoleBandMember, allowed: []auth.Role{auth.RoleClient}},
		{name: "admin not in empty list", role: auth.RoleAdmin, allowed: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := auth.Authorize(tc.role, tc.allowed...)

			var unauthorized *auth.UnauthorizedRoleError
			require.ErrorAs(t, err, &unauthorized)
			// Ошибка несёт и фактическую роль, и разрешённый набор.
			require.Equal(t, tc.role, unauthorized.Role)
			require.Equal(t, tc.allowed, unauthorized.Allowed)
		})
	}
}

func TestAuthorize_InvalidRoleBeforeAllowList(t *testing.T) {
	// Неизвестная роль отклоняется до allow-list проверки,
	// даже если бы строка совпала с элементом списка.
	err := auth.Authorize("stale-token-role", "stale-token-role")

	var invalid *auth.InvalidRoleError
	require.ErrorAs(t, err, &invalid)
}

func TestAllow(t *testing.T) {
	guard := auth.Allow(auth.RoleClient)

	require.NoError(t, guard(auth.Actor{UserID: "u-1", Role: auth.RoleClient}))

	err := guard(auth.Actor{UserID: "u-2", Role: auth.RoleBandMember})
	var unauthorized *auth.UnauthorizedRoleError
	require.True(t, errors.As(err, &unauthorized))
}
