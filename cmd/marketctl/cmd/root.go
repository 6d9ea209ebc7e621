package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagAPIURL    string
	flagDataDir   string
	flagEphemeral bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "marketctl is a client for the travel-vendor marketplace",
	Long: `A command-line front-end for the travel-vendor marketplace: phone/OTP
login, vendor onboarding and status, and admin review of vendors and users.
Credentials are kept in a local store and refreshed automatically.`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "backend base URL (default $MARKET_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "credential store directory (default $MARKET_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "keep the session in memory only")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
