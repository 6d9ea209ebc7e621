package api_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/safaltravel/marketctl/api"
	"github.com/safaltravel/marketctl/internal/stubserver"
	"github.com/safaltravel/marketctl/session"
	"github.com/safaltravel/marketctl/store"
	"github.com/safaltravel/marketctl/store/memstore"
	"github.com/safaltravel/marketctl/users"
	"github.com/stretchr/testify/require"
)

const testOTP = "123456"

// backendFixture wires a client and session manager against the in-process
// stub backend, the same way cmd/marketctl does against the real one.
type backendFixture struct {
	stub    *stubserver.Server
	baseURL string
}

func setupBackend(t *testing.T) *backendFixture {
	t.Helper()
	stub := stubserver.New(stubserver.WithFixedOTP(testOTP))
	server := httptest.NewServer(stub.Router())
	t.Cleanup(server.Close)
	return &backendFixture{stub: stub, baseURL: server.URL}
}

type clientFixture struct {
	store   *memstore.Store
	manager *session.Manager
	client  *api.Client
}

func (b *backendFixture) newClient(t *testing.T) *clientFixture {
	t.Helper()

	repo := memstore.New()
	mgr, err := session.NewManager(repo, api.NewRefreshFunc(b.baseURL))
	require.NoError(t, err)
	require.NoError(t, mgr.Restore(context.Background()))

	client, err := api.NewClient(b.baseURL, mgr)
	require.NoError(t, err)

	return &clientFixture{store: repo, manager: mgr, client: client}
}

// login runs the full OTP flow for phoneNumber and stores the session.
func (c *clientFixture) login(t *testing.T, phoneNumber string) *users.User {
	t.Helper()
	ctx := context.Background()

	challenge, err := c.client.SendOTP(ctx, phoneNumber)
	require.NoError(t, err)
	require.NotEmpty(t, challenge.VerificationID)
	require.Positive(t, challenge.Timeout)

	creds, err := c.client.VerifyOTP(ctx, phoneNumber, challenge.VerificationID, testOTP)
	require.NoError(t, err)
	require.NoError(t, c.manager.Login(ctx, creds.AccessToken, creds.RefreshToken, &creds.User))
	return &creds.User
}

func TestLoginFlow(t *testing.T) {
	backend := setupBackend(t)
	c := backend.newClient(t)

	user := c.login(t, "+15550001")
	require.Equal(t, users.RoleCustomer, user.Role)
	require.True(t, user.IsActive)

	status, err := c.client.VendorStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, users.VendorStatusNotApplied, status.Status)
}

func TestWrongOTPIsBusinessFailure(t *testing.T) {
	backend := setupBackend(t)
	c := backend.newClient(t)
	ctx := context.Background()

	challenge, err := c.client.SendOTP(ctx, "+15550001")
	require.NoError(t, err)

	_, err = c.client.VerifyOTP(ctx, "+15550001", challenge.VerificationID, "000000")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid verification code", apiErr.Message)
}

func TestTransparentRefreshOn401(t *testing.T) {
	backend := setupBackend(t)
	c := backend.newClient(t)
	c.login(t, "+15550001")

	before := c.manager.AccessToken()
	backend.stub.RevokeAccessTokens()

	status, err := c.client.VendorStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, users.VendorStatusNotApplied, status.Status)

	// The interceptor refreshed and the session rotated underneath the call.
	require.NotEqual(t, before, c.manager.AccessToken())
	require.NotNil(t, c.manager.Snapshot().User)
}

func TestUnrecoverable401ClearsSession(t *testing.T) {
	backend := setupBackend(t)
	c := backend.newClient(t)
	c.login(t, "+15550001")

	backend.stub.RevokeAllTokens()

	_, err := c.client.VendorStatus(context.Background())
	require.ErrorIs(t, err, api.ErrSessionExpired)

	require.Nil(t, c.manager.Snapshot().User)
	require.Empty(t, c.manager.AccessToken())
	for _, key := range []string{store.KeyAccessToken, store.KeyRefreshToken, store.KeyUser} {
		_, getErr := c.store.Get(key)
		require.ErrorIs(t, getErr, store.ErrNotFound)
	}
}

func TestAdminEndpointsRejectNonAdmins(t *testing.T) {
	backend := setupBackend(t)
	c := backend.newClient(t)
	c.login(t, "+15550001")

	_, err := c.client.Vendors(context.Background(), api.VendorFilter{})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "admin access required", apiErr.Message)
}

func TestVendorOnboardingLifecycle(t *testing.T) {
	backend := setupBackend(t)
	backend.stub.SeedAdmin("+15559999")
	ctx := context.Background()

	applicant := backend.newClient(t)
	applicant.login(t, "+15550001")

	admin := backend.newClient(t)
	adminUser := admin.login(t, "+15559999")
	require.Equal(t, users.RoleAdmin, adminUser.Role)

	require.NoError(t, applicant.client.RegisterVendor(ctx, api.VendorRegistration{
		BusinessName:    "Hilltop Retreat",
		OwnerName:       "R. Sharma",
		ContactNumbers:  []string{"+15550001"},
		Email:           "hilltop@example.com",
		BusinessAddress: "Ridge Road, Shimla",
		GSTNumber:       "22AAAAA0000A1Z5",
		PANNumber:       "AAAAA0000A",
		AadhaarNumber:   "123412341234",
		VendorType:      users.VendorTypeHotel,
		BankDetails: api.BankDetails{
			AccountNumber: "000111222333",
			IFSCCode:      "HDFC0000001",
			BankName:      "HDFC",
			BranchName:    "Shimla",
			AccountHolder: "R. Sharma",
		},
	}))

	status, err := applicant.client.VendorStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, users.VendorStatusPending, status.Status)
	require.Equal(t, "Hilltop Retreat", status.BusinessName)

	// A second application is rejected by the backend.
	err = applicant.client.RegisterVendor(ctx, api.VendorRegistration{BusinessName: "Another"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)

	page, err := admin.client.Vendors(ctx, api.VendorFilter{Status: users.VendorStatusPending})
	require.NoError(t, err)
	require.Len(t, page.Vendors, 1)
	vendorID := page.Vendors[0].ID

	require.NoError(t, admin.client.ApproveVendor(ctx, vendorID))

	status, err = applicant.client.VendorStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, users.VendorStatusApproved, status.Status)
	require.Positive(t, status.CommissionRate)

	require.NoError(t, admin.client.SuspendVendor(ctx, vendorID))
	status, err = applicant.client.VendorStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, users.VendorStatusSuspended, status.Status)
}

func TestAdminUserManagement(t *testing.T) {
	backend := setupBackend(t)
	backend.stub.SeedAdmin("+15559999")
	ctx := context.Background()

	customer := backend.newClient(t)
	customerUser := customer.login(t, "+15550001")

	admin := backend.newClient(t)
	admin.login(t, "+15559999")

	page, err := admin.client.Users(ctx, api.UserFilter{Role: users.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	require.Equal(t, customerUser.ID, page.Users[0].ID)

	require.NoError(t, admin.client.ToggleUserStatus(ctx, customerUser.ID, false))

	inactive := false
	page, err = admin.client.Users(ctx, api.UserFilter{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	require.False(t, page.Users[0].IsActive)

	require.NoError(t, admin.client.AssignAdminRole(ctx, customerUser.ID, api.AdminProfile{
		FullName: "New Admin",
		Email:    "new.admin@example.com",
	}))
	page, err = admin.client.Users(ctx, api.UserFilter{Role: users.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, page.Users, 2)

	require.NoError(t, admin.client.RevokeAdminRole(ctx, customerUser.ID))
	page, err = admin.client.Users(ctx, api.UserFilter{Role: users.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)

	require.NoError(t, admin.client.UpdateAdminProfile(ctx, api.AdminProfile{FullName: "Root Admin"}))
}
