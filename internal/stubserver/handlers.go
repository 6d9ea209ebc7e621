package stubserver

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/safaltravel/marketctl/users"
)

type contextKey string

const contextKeyUserID contextKey = "user_id"

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		s.mu.Lock()
		userID, ok := s.accessTokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct := s.requestAccount(r)
		if acct == nil || acct.user.Role != users.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestAccount(r *http.Request) *account {
	userID, _ := r.Context().Value(contextKeyUserID).(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[userID]
}

func (s *Server) sendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "phoneNumber is required")
		return
	}

	code := s.fixedOTP
	if code == "" {
		n, err := rand.Int(rand.Reader, big.NewInt(1000000))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate code")
			return
		}
		code = fmt.Sprintf("%06d", n.Int64())
	}

	verificationID := "ver_" + newID()
	s.mu.Lock()
	s.challenges[verificationID] = challenge{
		phoneNumber: body.PhoneNumber,
		code:        code,
		issuedAt:    s.nowTime(),
	}
	s.mu.Unlock()

	s.log.Info().Str("phone", body.PhoneNumber).Str("code", code).Msg("otp issued")
	writeData(w, http.StatusOK, map[string]any{
		"verificationId": verificationID,
		"timeout":        otpTimeoutSeconds,
	})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PhoneNumber    string `json:"phoneNumber"`
		VerificationID string `json:"verificationId"`
		Code           string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[body.VerificationID]
	if !ok || ch.phoneNumber != body.PhoneNumber || ch.code != body.Code {
		writeError(w, http.StatusBadRequest, "invalid verification code")
		return
	}
	if s.nowTime().Sub(ch.issuedAt) > otpTimeoutSeconds*time.Second {
		delete(s.challenges, body.VerificationID)
		writeError(w, http.StatusBadRequest, "verification code expired")
		return
	}
	delete(s.challenges, body.VerificationID)

	acct := s.ensureAccountLocked(body.PhoneNumber)
	if !acct.user.IsActive {
		writeError(w, http.StatusForbidden, "account is deactivated")
		return
	}
	accessToken, refreshToken := s.issueTokensLocked(acct.user.ID)

	writeData(w, http.StatusOK, map[string]any{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         acct.user,
	})
}

// refreshToken rotates both tokens. The old pair is revoked, which is what
// makes the client's single-retry behaviour observable in tests.
func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refreshTokens[token]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	delete(s.refreshTokens, token)
	accessToken, refreshToken := s.issueTokensLocked(userID)

	writeData(w, http.StatusOK, map[string]any{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RevokeAccessTokens invalidates every outstanding access token while
// keeping refresh tokens valid. Test hook for forcing 401s.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = make(map[string]string)
}

// RevokeAllTokens invalidates every outstanding credential. Test hook for
// forcing an unrecoverable session.
func (s *Server) RevokeAllTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = make(map[string]string)
	s.refreshTokens = make(map[string]string)
}

func (s *Server) registerVendor(w http.ResponseWriter, r *http.Request) {
	acct := s.requestAccount(r)
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "unknown account")
		return
	}

	var body struct {
		BusinessName string           `json:"businessName"`
		OwnerName    string           `json:"ownerName"`
		Email        string           `json:"email"`
		VendorType   users.VendorType `json:"vendorType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.BusinessName == "" {
		writeError(w, http.StatusBadRequest, "businessName is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if acct.vendorID != "" {
		writeError(w, http.StatusConflict, "vendor application already exists")
		return
	}

	rec := &vendorRecord{
		ID:           newID(),
		UserID:       acct.user.ID,
		BusinessName: body.BusinessName,
		OwnerName:    body.OwnerName,
		Email:        body.Email,
		VendorType:   body.VendorType,
		Status:       users.VendorStatusPending,
		CreatedAt:    s.nowTime(),
	}
	s.vendors[rec.ID] = rec
	acct.vendorID = rec.ID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: "application submitted"})
}

func (s *Server) vendorStatus(w http.ResponseWriter, r *http.Request) {
	acct := s.requestAccount(r)
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "unknown account")
		return
	}

	s.mu.Lock()
	rec := s.vendors[acct.vendorID]
	s.mu.Unlock()

	if rec == nil {
		writeData(w, http.StatusOK, map[string]any{"status": users.VendorStatusNotApplied})
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"status":         rec.Status,
		"businessName":   rec.BusinessName,
		"vendorType":     rec.VendorType,
		"createdAt":      rec.CreatedAt,
		"commissionRate": rec.CommissionRate,
	})
}

func (s *Server) listVendors(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	typeFilter := r.URL.Query().Get("vendorType")

	s.mu.Lock()
	defer s.mu.Unlock()

	vendors := make([]map[string]any, 0, len(s.vendors))
	for _, rec := range s.vendors {
		if statusFilter != "" && statusFilter != string(rec.Status) {
			continue
		}
		if typeFilter != "" && typeFilter != string(rec.VendorType) {
			continue
		}
		v := map[string]any{
			"id":             rec.ID,
			"businessName":   rec.BusinessName,
			"ownerName":      rec.OwnerName,
			"email":          rec.Email,
			"vendorType":     rec.VendorType,
			"status":         rec.Status,
			"createdAt":      rec.CreatedAt,
			"commissionRate": rec.CommissionRate,
		}
		if acct := s.accounts[rec.UserID]; acct != nil {
			v["user"] = acct.user
		}
		vendors = append(vendors, v)
	}

	writeData(w, http.StatusOK, map[string]any{
		"vendors":    vendors,
		"pagination": map[string]int{"page": 1, "limit": len(vendors), "total": len(vendors)},
	})
}

func (s *Server) vendorAction(target users.VendorStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "vendorID")

		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.vendors[vendorID]
		if !ok {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		rec.Status = target
		if acct := s.accounts[rec.UserID]; acct != nil {
			if target == users.VendorStatusApproved {
				acct.user.Role = users.RoleVendor
				rec.CommissionRate = 10
			} else if acct.user.Role == users.RoleVendor {
				acct.user.Role = users.RoleCustomer
			}
		}
		writeData(w, http.StatusOK, map[string]any{"status": rec.Status})
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	roleFilter := r.URL.Query().Get("role")
	activeFilter := r.URL.Query().Get("isActive")

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]map[string]any, 0, len(s.accounts))
	for _, acct := range s.accounts {
		if roleFilter != "" && roleFilter != string(acct.user.Role) {
			continue
		}
		if activeFilter != "" && activeFilter != fmt.Sprintf("%t", acct.user.IsActive) {
			continue
		}
		u := map[string]any{
			"id":          acct.user.ID,
			"phoneNumber": acct.user.PhoneNumber,
			"role":        acct.user.Role,
			"isActive":    acct.user.IsActive,
			"createdAt":   acct.createdAt,
		}
		if acct.adminProfile != nil {
			u["adminProfile"] = acct.adminProfile
		}
		accounts = append(accounts, u)
	}

	writeData(w, http.StatusOK, map[string]any{
		"users":      accounts,
		"pagination": map[string]int{"page": 1, "limit": len(accounts), "total": len(accounts)},
	})
}

func (s *Server) toggleUserStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var body struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	acct.user.IsActive = body.IsActive
	writeData(w, http.StatusOK, map[string]any{"isActive": acct.user.IsActive})
}

func (s *Server) assignAdmin(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var body adminProfile
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	acct.user.Role = users.RoleAdmin
	acct.adminProfile = &body
	writeData(w, http.StatusOK, map[string]any{"role": acct.user.Role})
}

func (s *Server) revokeAdmin(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	acct.user.Role = users.RoleCustomer
	if acct.vendorID != "" {
		if rec := s.vendors[acct.vendorID]; rec != nil && rec.Status == users.VendorStatusApproved {
			acct.user.Role = users.RoleVendor
		}
	}
	acct.adminProfile = nil
	writeData(w, http.StatusOK, map[string]any{"role": acct.user.Role})
}

func (s *Server) updateAdminProfile(w http.ResponseWriter, r *http.Request) {
	acct := s.requestAccount(r)
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "unknown account")
		return
	}

	var body adminProfile
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	acct.adminProfile = &body
	s.mu.Unlock()

	writeData(w, http.StatusOK, map[string]any{"profile": body})
}
