package users

import "strings"

// Role represents the account role assigned by the backend.
type Role string

const (
	RoleCustomer Role = "CUSTOMER" // Default role for every verified phone number
	RoleVendor   Role = "VENDOR"   // Approved marketplace vendor
	RoleAdmin    Role = "ADMIN"    // Marketplace administrator
)

// ParseRole normalises a raw role string. Unknown values map to RoleCustomer,
// matching the backend's treatment of accounts with no explicit role.
func ParseRole(raw string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleVendor:
		return RoleVendor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// VendorType categorises a vendor's business.
type VendorType string

const (
	VendorTypeHotel       VendorType = "HOTEL"
	VendorTypeAdventure   VendorType = "ADVENTURE"
	VendorTypeTransport   VendorType = "TRANSPORT"
	VendorTypeLocalMarket VendorType = "LOCAL_MARKET"
)

// VendorStatus is the lifecycle state of a vendor onboarding application.
type VendorStatus string

const (
	VendorStatusNotApplied VendorStatus = "NOT_APPLIED"
	VendorStatusPending    VendorStatus = "PENDING"
	VendorStatusApproved   VendorStatus = "APPROVED"
	VendorStatusRejected   VendorStatus = "REJECTED"
	VendorStatusSuspended  VendorStatus = "SUSPENDED"
)

// User is the identity record returned by the backend on OTP verification.
type User struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	Role        Role   `json:"role"`
	IsActive    bool   `json:"isActive"`
}

// HasRole reports whether the user's role is in roles. An empty roles slice
// means any role is acceptable.
func (u *User) HasRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
