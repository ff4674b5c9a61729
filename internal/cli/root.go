package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nextracker/nextracker/internal/config"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	envFile string
	noColor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nextracker",
	Short: "Watch a Nextcloud server's status from the terminal",
	Long: `nextracker polls the Nextcloud serverinfo API on a schedule and shows
the fields you care about in a live terminal dashboard.

Credentials come from NC_INSTANCE, NC_USER and NC_PASS, read from the
environment or a .env file. Field selection lives in .nextracker.yaml.

Run without a subcommand to start the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), watchIntervalFlag)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(handleError(err))
	}
}

// handleError prints err and returns the process exit code for it.
func handleError(err error) int {
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .nextracker.yaml, searched upwards)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file holding NC_INSTANCE, NC_USER and NC_PASS")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// The bare command behaves like 'watch', so it takes the same flag.
	rootCmd.Flags().StringVar(&watchIntervalFlag, "interval", "", "refresh interval (e.g., 10s, 1m); overrides the config file")
}
