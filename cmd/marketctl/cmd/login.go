package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/safaltravel/marketctl/guard"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <phone-number>",
	Short: "Log in with a phone number and one-time password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ctx := cobraCmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		phoneNumber := strings.TrimSpace(args[0])

		challenge, err := a.client.SendOTP(ctx, phoneNumber)
		if err != nil {
			return errors.Wrap(err, "sending otp")
		}
		fmt.Printf("OTP sent to %s (valid for %ds)\n", phoneNumber, challenge.Timeout)

		fmt.Print("Enter code: ")
		reader := bufio.NewReader(os.Stdin)
		code, err := reader.ReadString('\n')
		if err != nil {
			return errors.Wrap(err, "reading code")
		}

		creds, err := a.client.VerifyOTP(ctx, phoneNumber, challenge.VerificationID, strings.TrimSpace(code))
		if err != nil {
			return errors.Wrap(err, "verifying otp")
		}

		if err := a.session.Login(ctx, creds.AccessToken, creds.RefreshToken, &creds.User); err != nil {
			return errors.Wrap(err, "storing session")
		}

		fmt.Printf("Logged in as %s (%s)\n", creds.User.PhoneNumber, creds.User.Role)
		fmt.Printf("Landing page: %s\n", guard.LandingRoute(creds.User.Role))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
