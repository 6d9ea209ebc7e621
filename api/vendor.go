package api

import (
	"context"

	"github.com/pkg/errors"
)

// RegisterVendor submits a vendor onboarding application for the current
// user. The application enters PENDING until an admin reviews it.
func (c *Client) RegisterVendor(ctx context.Context, reg VendorRegistration) error {
	if err := c.post(ctx, routeVendorRegister, reg, nil); err != nil {
		return errors.Wrap(err, "[Client.RegisterVendor]")
	}
	return nil
}

// VendorStatus returns the current user's onboarding application state.
// Users who never applied get NOT_APPLIED.
func (c *Client) VendorStatus(ctx context.Context) (*VendorStatusInfo, error) {
	var out VendorStatusInfo
	if err := c.get(ctx, routeVendorStatus, nil, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.VendorStatus]")
	}
	return &out, nil
}
