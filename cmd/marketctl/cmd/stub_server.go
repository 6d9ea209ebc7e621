package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/safaltravel/marketctl/internal/config"
	"github.com/safaltravel/marketctl/internal/stubserver"
	"github.com/spf13/cobra"
)

var (
	stubPort      string
	stubOTP       string
	stubSeedAdmin string
)

var stubServerCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run an in-memory marketplace backend for local development",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		cfg := config.New()
		log := newLogger()

		displayAppname(cfg.GetAppName() + " stub")

		opts := []stubserver.Option{stubserver.WithLogger(log)}
		if stubOTP != "" {
			opts = append(opts, stubserver.WithFixedOTP(stubOTP))
		}
		stub := stubserver.New(opts...)
		if stubSeedAdmin != "" {
			admin := stub.SeedAdmin(stubSeedAdmin)
			fmt.Printf("Seeded admin account %s (%s)\n", admin.PhoneNumber, admin.ID)
		}

		port := stubPort
		if port == "" {
			port = cfg.GetStubPort()
		}
		server := &http.Server{Addr: port, Handler: stub.Router()}

		errCh := make(chan error, 1)
		go func() {
			fmt.Printf("Stub backend listening on %s\n", port)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func init() {
	stubServerCmd.Flags().StringVar(&stubPort, "port", "", "listen address (default $MARKET_STUB_PORT)")
	stubServerCmd.Flags().StringVar(&stubOTP, "otp", "123456", "fixed OTP code, empty for random codes")
	stubServerCmd.Flags().StringVar(&stubSeedAdmin, "seed-admin", "", "seed an ADMIN account for this phone number")
	rootCmd.AddCommand(stubServerCmd)
}
