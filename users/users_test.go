package users_test

import (
	"testing"

	"github.com/safaltravel/marketctl/users"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	require.Equal(t, users.RoleAdmin, users.ParseRole("admin"))
	require.Equal(t, users.RoleVendor, users.ParseRole(" VENDOR "))
	require.Equal(t, users.RoleCustomer, users.ParseRole("CUSTOMER"))
	require.Equal(t, users.RoleCustomer, users.ParseRole(""))
	require.Equal(t, users.RoleCustomer, users.ParseRole("owner"))
}

func TestHasRole(t *testing.T) {
	u := &users.User{ID: "u1", Role: users.RoleVendor}

	require.True(t, u.HasRole(), "empty role list accepts any authenticated user")
	require.True(t, u.HasRole(users.RoleVendor))
	require.True(t, u.HasRole(users.RoleAdmin, users.RoleVendor))
	require.False(t, u.HasRole(users.RoleAdmin))
}
