package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/safaltravel/marketctl/api"
	"github.com/spf13/cobra"
)

var vendorCmd = &cobra.Command{
	Use:   "vendor",
	Short: "Vendor onboarding and status",
}

var vendorRegisterFile string

var vendorRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Submit a vendor onboarding application",
	Long: `Submits a vendor application from a JSON file matching the backend's
registration payload (businessName, ownerName, contactNumbers, email,
businessAddress, gstNumber, panNumber, aadhaarNumber, vendorType,
bankDetails).`,
	Args: cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireRoles(); err != nil {
			return err
		}

		raw, err := os.ReadFile(vendorRegisterFile)
		if err != nil {
			return errors.Wrap(err, "reading application file")
		}
		var reg api.VendorRegistration
		if err := json.Unmarshal(raw, &reg); err != nil {
			return errors.Wrap(err, "parsing application file")
		}

		if err := a.client.RegisterVendor(ctx, reg); err != nil {
			return errors.Wrap(err, "registering vendor")
		}
		fmt.Println("Application submitted, check progress with 'marketctl vendor status'")
		return nil
	},
}

var vendorStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of your vendor application",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireRoles(); err != nil {
			return err
		}

		status, err := a.client.VendorStatus(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching vendor status")
		}

		fmt.Printf("Status: %s\n", status.Status)
		if status.BusinessName != "" {
			fmt.Printf("Business: %s (%s)\n", status.BusinessName, status.VendorType)
		}
		if status.CommissionRate > 0 {
			fmt.Printf("Commission rate: %.1f%%\n", status.CommissionRate)
		}
		if status.Message != "" {
			fmt.Printf("Note: %s\n", status.Message)
		}
		return nil
	},
}

func init() {
	vendorRegisterCmd.Flags().StringVarP(&vendorRegisterFile, "file", "f", "", "JSON application file")
	_ = vendorRegisterCmd.MarkFlagRequired("file")

	vendorCmd.AddCommand(vendorRegisterCmd)
	vendorCmd.AddCommand(vendorStatusCmd)
	rootCmd.AddCommand(vendorCmd)
}
