package guard_test

import (
	"testing"

	"github.com/safaltravel/marketctl/guard"
	"github.com/safaltravel/marketctl/session"
	"github.com/safaltravel/marketctl/users"
	"github.com/stretchr/testify/require"
)

func vendorSnapshot() session.Snapshot {
	return session.Snapshot{
		User: &users.User{ID: "u1", PhoneNumber: "+1555", Role: users.RoleVendor, IsActive: true},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		snapshot session.Snapshot
		roles    []users.Role
		want     guard.Decision
	}{
		{
			name:     "waits while loading",
			snapshot: session.Snapshot{Loading: true},
			roles:    []users.Role{users.RoleAdmin},
			want:     guard.Decision{Outcome: guard.Wait},
		},
		{
			name:     "anonymous redirects to login",
			snapshot: session.Snapshot{},
			want:     guard.Decision{Outcome: guard.Redirect, Target: guard.RouteLogin},
		},
		{
			name:     "vendor allowed on vendor view",
			snapshot: vendorSnapshot(),
			roles:    []users.Role{users.RoleVendor},
			want:     guard.Decision{Outcome: guard.Allow},
		},
		{
			name:     "vendor denied on admin view lands on vendor dashboard",
			snapshot: vendorSnapshot(),
			roles:    []users.Role{users.RoleAdmin},
			want:     guard.Decision{Outcome: guard.Redirect, Target: guard.RouteVendorDashboard},
		},
		{
			name:     "empty required roles means any authenticated user",
			snapshot: vendorSnapshot(),
			want:     guard.Decision{Outcome: guard.Allow},
		},
		{
			name: "customer denied on vendor view lands home",
			snapshot: session.Snapshot{
				User: &users.User{ID: "u2", Role: users.RoleCustomer, IsActive: true},
			},
			roles: []users.Role{users.RoleVendor, users.RoleAdmin},
			want:  guard.Decision{Outcome: guard.Redirect, Target: guard.RouteHome},
		},
		{
			name: "admin denied on customer view lands on admin dashboard",
			snapshot: session.Snapshot{
				User: &users.User{ID: "u3", Role: users.RoleAdmin, IsActive: true},
			},
			roles: []users.Role{users.RoleCustomer},
			want:  guard.Decision{Outcome: guard.Redirect, Target: guard.RouteAdminDashboard},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.Evaluate(tt.snapshot, tt.roles...)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLandingRoute(t *testing.T) {
	require.Equal(t, guard.RouteAdminDashboard, guard.LandingRoute(users.RoleAdmin))
	require.Equal(t, guard.RouteVendorDashboard, guard.LandingRoute(users.RoleVendor))
	require.Equal(t, guard.RouteHome, guard.LandingRoute(users.RoleCustomer))
	require.Equal(t, guard.RouteHome, guard.LandingRoute(users.Role("UNKNOWN")))
}
