package commands

import (
	"context"
	"log/slog"
	"os"

	"pocheclient/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
	dump       *bool
)

var setupTelemetry = telemetry.SetupFromEnv

var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:           "wallabag-cli",
	Short:         "wallabag-cli drives a poche/wallabag v1 server through its html pages.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
		t, err := setupTelemetry(cmd.Context(), "wallabag-cli")
		if err != nil {
			slog.Warn("telemetry disabled", "err", err.Error())
			return
		}
		tel = t
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "wallabag.json5", "The config file holding the endpoint and credentials.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages.")
	dump = rootCmd.PersistentFlags().Bool("dump", false, "Write every request and response to <dev_state>/resty_telemetry/wallabag.")
}

// run executes the command line in args and flushes telemetry whether or
// not the command failed.
func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.Background())
	if shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr.Error())
	}
	tel = telemetry.Telemetry{}
	return err
}

func ExecuteContext(ctx context.Context) {
	err := run(ctx, os.Args[1:])
	if err != nil {
		slog.Error("command failed", "err", err.Error())
		os.Exit(1)
	}
}
