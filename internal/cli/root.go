package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lucasnoah/checkresources/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var (
	configFile  string
	databaseURL string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "checkresources <path>",
	Short: "checkresources — fail the build on unused Android resources",
	Long: `checkresources runs "lint --check UnusedResources <path>" and reports every
output line tagged [UnusedResources].

Exit status is 0 when nothing is reported, 1 when unused resources were found
and 2 when lint could not be run or the configuration is invalid.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE:          runCheck,
}

// Execute runs the root command, cancelling a running lint on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ./checkresources.yaml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL for run history (overrides config and $"+config.DatabaseURLEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
}

// loadConfig resolves the config file and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	return cfg, nil
}

// newLogger returns a text logger on w. Stdout is reserved for findings.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
