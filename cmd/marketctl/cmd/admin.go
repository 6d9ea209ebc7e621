package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/safaltravel/marketctl/api"
	"github.com/safaltravel/marketctl/users"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Marketplace administration (ADMIN role required)",
}

var adminVendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Review vendor applications",
}

var (
	vendorListStatus string
	vendorListType   string
)

var adminVendorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vendor applications",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireRoles(users.RoleAdmin); err != nil {
			return err
		}

		page, err := a.client.Vendors(ctx, api.VendorFilter{
			Status:     users.VendorStatus(vendorListStatus),
			VendorType: users.VendorType(vendorListType),
		})
		if err != nil {
			return errors.Wrap(err, "listing vendors")
		}

		if len(page.Vendors) == 0 {
			fmt.Println("No vendors found")
			return nil
		}
		for _, v := range page.Vendors {
			fmt.Printf("%s  %-10s %-12s %s (%s)\n", v.ID, v.Status, v.VendorType, v.BusinessName, v.Email)
		}
		return nil
	},
}

func vendorActionCommand(use, short string, action func(*app, *cobra.Command, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <vendor-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			ctx := cobraCmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireRoles(users.RoleAdmin); err != nil {
				return err
			}
			if err := action(a, cobraCmd, args[0]); err != nil {
				return err
			}
			fmt.Printf("Vendor %s: done\n", args[0])
			return nil
		},
	}
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var (
	userListRole   string
	userListActive string
)

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireRoles(users.RoleAdmin); err != nil {
			return err
		}

		filter := api.UserFilter{}
		if userListRole != "" {
			filter.Role = users.ParseRole(userListRole)
		}
		switch userListActive {
		case "true":
			active := true
			filter.IsActive = &active
		case "false":
			active := false
			filter.IsActive = &active
		}

		page, err := a.client.Users(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "listing users")
		}

		if len(page.Users) == 0 {
			fmt.Println("No users found")
			return nil
		}
		for _, u := range page.Users {
			state := "active"
			if !u.IsActive {
				state = "inactive"
			}
			fmt.Printf("%s  %-8s %-9s %s\n", u.ID, u.Role, state, u.PhoneNumber)
		}
		return nil
	},
}

var toggleActive bool

var adminUsersToggleCmd = &cobra.Command{
	Use:   "toggle <user-id>",
	Short: "Activate or deactivate a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireRoles(users.RoleAdmin); err != nil {
			return err
		}
		if err := a.client.ToggleUserStatus(ctx, args[0], toggleActive); err != nil {
			return errors.Wrap(err, "toggling user status")
		}
		fmt.Printf("User %s active=%t\n", args[0], toggleActive)
		return nil
	},
}

func init() {
	adminVendorsListCmd.Flags().StringVar(&vendorListStatus, "status", "", "filter by status (PENDING, APPROVED, REJECTED, SUSPENDED)")
	adminVendorsListCmd.Flags().StringVar(&vendorListType, "type", "", "filter by vendor type")
	adminVendorsCmd.AddCommand(adminVendorsListCmd)

	adminVendorsCmd.AddCommand(vendorActionCommand("approve", "Approve a pending vendor application",
		func(a *app, c *cobra.Command, id string) error { return a.client.ApproveVendor(c.Context(), id) }))
	adminVendorsCmd.AddCommand(vendorActionCommand("reject", "Reject a pending vendor application",
		func(a *app, c *cobra.Command, id string) error { return a.client.RejectVendor(c.Context(), id) }))
	adminVendorsCmd.AddCommand(vendorActionCommand("suspend", "Suspend an approved vendor",
		func(a *app, c *cobra.Command, id string) error { return a.client.SuspendVendor(c.Context(), id) }))

	adminUsersListCmd.Flags().StringVar(&userListRole, "role", "", "filter by role (CUSTOMER, VENDOR, ADMIN)")
	adminUsersListCmd.Flags().StringVar(&userListActive, "active", "", "filter by active state (true|false)")
	adminUsersToggleCmd.Flags().BoolVar(&toggleActive, "active", true, "target active state")
	adminUsersCmd.AddCommand(adminUsersListCmd)
	adminUsersCmd.AddCommand(adminUsersToggleCmd)

	adminCmd.AddCommand(adminVendorsCmd)
	adminCmd.AddCommand(adminUsersCmd)
	rootCmd.AddCommand(adminCmd)
}
