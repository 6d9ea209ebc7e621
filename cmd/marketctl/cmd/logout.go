package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
