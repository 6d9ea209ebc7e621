// Package stubserver implements the marketplace backend contract against
// in-memory state. It exists so the CLI and the client tests have a real
// collaborator to talk to; it is not the production backend.
package stubserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/safaltravel/marketctl/users"
)

const otpTimeoutSeconds = 300

type challenge struct {
	phoneNumber string
	code        string
	issuedAt    time.Time
}

type vendorRecord struct {
	ID             string
	UserID         string
	BusinessName   string
	OwnerName      string
	Email          string
	VendorType     users.VendorType
	Status         users.VendorStatus
	CreatedAt      time.Time
	CommissionRate float64
}

type account struct {
	user         users.User
	createdAt    time.Time
	vendorID     string
	adminProfile *adminProfile
}

type adminProfile struct {
	FullName    string   `json:"fullName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Server holds the in-memory marketplace state.
type Server struct {
	log      zerolog.Logger
	fixedOTP string
	nowTime  func() time.Time

	mu            sync.Mutex
	challenges    map[string]challenge // verificationID -> challenge
	accounts      map[string]*account  // userID -> account
	phoneIndex    map[string]string    // phoneNumber -> userID
	accessTokens  map[string]string    // accessToken -> userID
	refreshTokens map[string]string    // refreshToken -> userID
	vendors       map[string]*vendorRecord
}

// Option configures the Server instance.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithFixedOTP makes every challenge accept the given code. For development
// and tests; without it codes are generated and logged.
func WithFixedOTP(code string) Option {
	return func(s *Server) {
		s.fixedOTP = code
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// New creates a stub backend with empty state.
func New(opts ...Option) *Server {
	s := &Server{
		log:           zerolog.Nop(),
		nowTime:       time.Now,
		challenges:    make(map[string]challenge),
		accounts:      make(map[string]*account),
		phoneIndex:    make(map[string]string),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
		vendors:       make(map[string]*vendorRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedAdmin creates an active ADMIN account for phoneNumber so a fresh stub
// has someone who can review vendors.
func (s *Server) SeedAdmin(phoneNumber string) *users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.ensureAccountLocked(phoneNumber)
	acct.user.Role = users.RoleAdmin
	return &acct.user
}

// Router returns a chi.Router with the full backend contract mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/auth/send-otp", s.sendOTP)
	r.Post("/api/auth/verify-otp", s.verifyOTP)
	r.Post("/api/auth/refresh-token", s.refreshToken)

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Post("/api/auth/vendor/register", s.registerVendor)
		r.Get("/api/auth/vendor/status", s.vendorStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer, s.requireAdmin)
		r.Get("/api/auth/admin/vendors", s.listVendors)
		r.Put("/api/auth/admin/vendor/{vendorID}/approve", s.vendorAction(users.VendorStatusApproved))
		r.Put("/api/auth/admin/vendor/{vendorID}/reject", s.vendorAction(users.VendorStatusRejected))
		r.Put("/api/auth/admin/vendor/{vendorID}/suspend", s.vendorAction(users.VendorStatusSuspended))
		r.Get("/api/auth/admin/users", s.listUsers)
		r.Put("/api/auth/admin/user/{userID}/toggle-status", s.toggleUserStatus)
		r.Put("/api/auth/admin/user/{userID}/assign-admin", s.assignAdmin)
		r.Put("/api/auth/admin/user/{userID}/revoke-admin", s.revokeAdmin)
		r.Put("/api/auth/admin/profile", s.updateAdminProfile)
	})

	return r
}

// ensureAccountLocked finds or creates the account for phoneNumber.
// Callers must hold s.mu.
func (s *Server) ensureAccountLocked(phoneNumber string) *account {
	if id, ok := s.phoneIndex[phoneNumber]; ok {
		return s.accounts[id]
	}
	id := uuid.New().String()
	acct := &account{
		user: users.User{
			ID:          id,
			PhoneNumber: phoneNumber,
			Role:        users.RoleCustomer,
			IsActive:    true,
		},
		createdAt: s.nowTime(),
	}
	s.accounts[id] = acct
	s.phoneIndex[phoneNumber] = id
	return acct
}

func (s *Server) issueTokensLocked(userID string) (accessToken, refreshToken string) {
	accessToken = "at_" + uuid.New().String()
	refreshToken = "rt_" + uuid.New().String()
	s.accessTokens[accessToken] = userID
	s.refreshTokens[refreshToken] = userID
	return accessToken, refreshToken
}

func newID() string {
	return uuid.New().String()
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
