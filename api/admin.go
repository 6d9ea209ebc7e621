package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/safaltravel/marketctl/users"
)

// VendorFilter narrows the admin vendor listing. Zero values are omitted.
type VendorFilter struct {
	Status     users.VendorStatus
	VendorType users.VendorType
	Page       int
	Limit      int
}

func (f VendorFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.VendorType != "" {
		q.Set("vendorType", string(f.VendorType))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// UserFilter narrows the admin user listing. Zero values are omitted;
// IsActive is a pointer so "only inactive" is expressible.
type UserFilter struct {
	Role     users.Role
	IsActive *bool
	Page     int
	Limit    int
}

func (f UserFilter) query() url.Values {
	q := url.Values{}
	if f.Role != "" {
		q.Set("role", string(f.Role))
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Vendors returns one page of vendor applications for admin review.
func (c *Client) Vendors(ctx context.Context, filter VendorFilter) (*VendorPage, error) {
	var out VendorPage
	if err := c.get(ctx, routeAdminVendors, filter.query(), &out); err != nil {
		return nil, errors.Wrap(err, "[Client.Vendors]")
	}
	return &out, nil
}

// ApproveVendor moves a vendor application to APPROVED.
func (c *Client) ApproveVendor(ctx context.Context, vendorID string) error {
	return c.vendorAction(ctx, vendorID, "approve")
}

// RejectVendor moves a vendor application to REJECTED.
func (c *Client) RejectVendor(ctx context.Context, vendorID string) error {
	return c.vendorAction(ctx, vendorID, "reject")
}

// SuspendVendor moves an approved vendor to SUSPENDED.
func (c *Client) SuspendVendor(ctx context.Context, vendorID string) error {
	return c.vendorAction(ctx, vendorID, "suspend")
}

func (c *Client) vendorAction(ctx context.Context, vendorID, action string) error {
	path := fmt.Sprintf(routeAdminVendorAction, url.PathEscape(vendorID), action)
	if err := c.put(ctx, path, struct{}{}, nil); err != nil {
		return errors.Wrapf(err, "[Client.vendorAction] %s", action)
	}
	return nil
}

// Users returns one page of user accounts.
func (c *Client) Users(ctx context.Context, filter UserFilter) (*AccountPage, error) {
	var out AccountPage
	if err := c.get(ctx, routeAdminUsers, filter.query(), &out); err != nil {
		return nil, errors.Wrap(err, "[Client.Users]")
	}
	return &out, nil
}

// ToggleUserStatus activates or deactivates a user account.
func (c *Client) ToggleUserStatus(ctx context.Context, userID string, isActive bool) error {
	body := struct {
		IsActive bool `json:"isActive"`
	}{IsActive: isActive}

	path := fmt.Sprintf(routeAdminUserAction, url.PathEscape(userID), "toggle-status")
	if err := c.put(ctx, path, body, nil); err != nil {
		return errors.Wrap(err, "[Client.ToggleUserStatus]")
	}
	return nil
}

// AssignAdminRole promotes a user to ADMIN with the given profile.
func (c *Client) AssignAdminRole(ctx context.Context, userID string, profile AdminProfile) error {
	path := fmt.Sprintf(routeAdminUserAction, url.PathEscape(userID), "assign-admin")
	if err := c.put(ctx, path, profile, nil); err != nil {
		return errors.Wrap(err, "[Client.AssignAdminRole]")
	}
	return nil
}

// RevokeAdminRole demotes an admin back to their underlying role.
func (c *Client) RevokeAdminRole(ctx context.Context, userID string) error {
	path := fmt.Sprintf(routeAdminUserAction, url.PathEscape(userID), "revoke-admin")
	if err := c.put(ctx, path, struct{}{}, nil); err != nil {
		return errors.Wrap(err, "[Client.RevokeAdminRole]")
	}
	return nil
}

// UpdateAdminProfile updates the calling admin's own profile.
func (c *Client) UpdateAdminProfile(ctx context.Context, profile AdminProfile) error {
	if err := c.put(ctx, routeAdminProfile, profile, nil); err != nil {
		return errors.Wrap(err, "[Client.UpdateAdminProfile]")
	}
	return nil
}
