package commands

import (
	"context"
	"wt-summariser/internal/components/serviceutil"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/config"

	"github.com/spf13/cobra"
)

var (
	configFile string
	envFiles   []string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "wt-summariser",
	Short:         "wt-summariser prepares answers and a summary for the weekly study article.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		serviceutil.LoadDotenv(envFiles...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the config file, config.json5 is searched for when empty.")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load before reading config (default .env).")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

func loadConfig() (config.Config, error) {
	return config.Load(configFile)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
