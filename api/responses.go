package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/safaltravel/marketctl/users"
)

// envelope is the wire shape of every backend response.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// APIError is a business failure reported by the backend (success=false).
// The message is displayable as-is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return e.Message
}

// OTPChallenge is returned by the send-otp endpoint.
type OTPChallenge struct {
	// VerificationID identifies the challenge and must be echoed back on
	// verification.
	VerificationID string `json:"verificationId"`

	// Timeout is the challenge validity window in seconds.
	Timeout int `json:"timeout"`
}

// Credentials is returned by the verify-otp endpoint on a successful login.
type Credentials struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         users.User `json:"user"`
}

// refreshedTokens is returned by the refresh-token endpoint. RefreshToken is
// present only when the backend rotated it.
type refreshedTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// BankDetails is the settlement account block of a vendor registration.
type BankDetails struct {
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	BankName      string `json:"bankName"`
	BranchName    string `json:"branchName"`
	AccountHolder string `json:"accountHolder"`
}

// VendorRegistration is the onboarding application payload.
type VendorRegistration struct {
	BusinessName    string           `json:"businessName"`
	OwnerName       string           `json:"ownerName"`
	ContactNumbers  []string         `json:"contactNumbers"`
	Email           string           `json:"email"`
	BusinessAddress string           `json:"businessAddress"`
	GoogleMapsLink  string           `json:"googleMapsLink,omitempty"`
	GSTNumber       string           `json:"gstNumber"`
	PANNumber       string           `json:"panNumber"`
	AadhaarNumber   string           `json:"aadhaarNumber"`
	VendorType      users.VendorType `json:"vendorType"`
	BankDetails     BankDetails      `json:"bankDetails"`
}

// VendorStatusInfo describes the caller's own onboarding application.
type VendorStatusInfo struct {
	Status         users.VendorStatus `json:"status"`
	BusinessName   string             `json:"businessName,omitempty"`
	VendorType     users.VendorType   `json:"vendorType,omitempty"`
	CreatedAt      *time.Time         `json:"createdAt,omitempty"`
	CommissionRate float64            `json:"commissionRate,omitempty"`
	Message        string             `json:"message,omitempty"`
}

// Vendor is the admin-facing view of a vendor application.
type Vendor struct {
	ID             string             `json:"id"`
	BusinessName   string             `json:"businessName"`
	OwnerName      string             `json:"ownerName"`
	Email          string             `json:"email"`
	VendorType     users.VendorType   `json:"vendorType"`
	Status         users.VendorStatus `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
	CommissionRate float64            `json:"commissionRate"`
	User           *users.User        `json:"user,omitempty"`
}

// AdminProfile is the optional admin metadata attached to a user account.
type AdminProfile struct {
	FullName    string   `json:"fullName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Account is the admin-facing view of a user account.
type Account struct {
	ID            string        `json:"id"`
	PhoneNumber   string        `json:"phoneNumber"`
	Role          users.Role    `json:"role"`
	IsActive      bool          `json:"isActive"`
	CreatedAt     time.Time     `json:"createdAt"`
	VendorProfile *Vendor       `json:"vendorProfile,omitempty"`
	AdminProfile  *AdminProfile `json:"adminProfile,omitempty"`
}

// Pagination reports the slice of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// VendorPage is one page of the admin vendor listing.
type VendorPage struct {
	Vendors    []Vendor    `json:"vendors"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// AccountPage is one page of the admin user listing.
type AccountPage struct {
	Users      []Account   `json:"users"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
