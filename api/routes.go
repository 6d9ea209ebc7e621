package api

// Backend route constants
// All backend endpoints are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	routeSendOTP      = "/api/auth/send-otp"
	routeVerifyOTP    = "/api/auth/verify-otp"
	routeRefreshToken = "/api/auth/refresh-token"

	// Vendor Routes
	routeVendorRegister = "/api/auth/vendor/register"
	routeVendorStatus   = "/api/auth/vendor/status"

	// Admin Routes
	routeAdminVendors      = "/api/auth/admin/vendors"
	routeAdminVendorAction = "/api/auth/admin/vendor/%s/%s" // vendorID, action
	routeAdminUsers        = "/api/auth/admin/users"
	routeAdminUserAction   = "/api/auth/admin/user/%s/%s" // userID, action
	routeAdminProfile      = "/api/auth/admin/profile"
)
