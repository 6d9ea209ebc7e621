package guard

import "github.com/safaltravel/marketctl/users"

// Route path constants
// All front-end destinations are defined here to ensure consistency
const (
	RouteHome            = "/"
	RouteLogin           = "/auth"
	RouteVendorSignup    = "/auth/vendorRegistration"
	RouteVendorStatus    = "/dashboard/vendor-status"
	RouteVendorDashboard = "/dashboard/vendor"
	RouteAdminDashboard  = "/dashboard/admin"
)

// LandingRoute is the single role→destination mapping, used both for the
// post-login redirect and for the guard's denial redirect.
func LandingRoute(role users.Role) string {
	switch role {
	case users.RoleAdmin:
		return RouteAdminDashboard
	case users.RoleVendor:
		return RouteVendorDashboard
	default:
		return RouteHome
	}
}
