package cmd

import (
	"fmt"

	"github.com/safaltravel/marketctl/guard"
	"github.com/safaltravel/marketctl/token"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in identity",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		snap := a.session.Snapshot()
		if !snap.LoggedIn() {
			fmt.Println("Not logged in")
			return nil
		}

		fmt.Printf("Phone:   %s\n", snap.User.PhoneNumber)
		fmt.Printf("Role:    %s\n", snap.User.Role)
		fmt.Printf("Active:  %t\n", snap.User.IsActive)
		fmt.Printf("Landing: %s\n", guard.LandingRoute(snap.User.Role))
		if exp, ok := token.ExpiresAt(a.session.AccessToken()); ok {
			fmt.Printf("Token expires: %s\n", exp.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
