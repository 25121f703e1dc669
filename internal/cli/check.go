package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lucasnoah/checkresources/internal/checks"
	"github.com/lucasnoah/checkresources/internal/config"
	"github.com/lucasnoah/checkresources/internal/db"
	"github.com/spf13/cobra"
)

// newCommandRunner is swapped out in tests.
var newCommandRunner = func() checks.CommandRunner {
	return &checks.ExecRunner{}
}

func init() {
	rootCmd.Flags().String("tool", "", "lint executable to run (default from config, else \"lint\")")
	rootCmd.Flags().Duration("timeout", 0, "give up on lint after this long (default: wait indefinitely)")
	rootCmd.Flags().String("format", "text", "Output format: text or json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]
	cmd.SilenceUsage = true

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return toolError(fmt.Errorf("unknown format %q (want text or json)", format))
	}

	cfg, err := loadConfig()
	if err != nil {
		return toolError(fmt.Errorf("load config: %w", err))
	}
	if cmd.Flags().Changed("tool") {
		cfg.Tool, _ = cmd.Flags().GetString("tool")
	}
	if cmd.Flags().Changed("timeout") {
		d, _ := cmd.Flags().GetDuration("timeout")
		cfg.Timeout = d.String()
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return toolError(fmt.Errorf("invalid config: %s", strings.Join(msgs, "; ")))
	}
	timeout, _ := cfg.TimeoutDuration()

	logger := newLogger(cmd.ErrOrStderr())
	runner := checks.NewRunner(newCommandRunner(), logger)

	result, err := runner.Run(cmd.Context(), "", target, checks.CheckConfig{
		Tool:    cfg.Tool,
		Check:   cfg.Check,
		Marker:  cfg.Marker,
		Parser:  cfg.Parser,
		Timeout: timeout,
	})
	if err != nil {
		return toolError(err)
	}
	logger.Info("check finished", "target", target, "passed", result.Passed, "summary", result.Summary)

	if cfg.DatabaseURL != "" {
		recordRun(cmd.Context(), cfg.DatabaseURL, result, logger)
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return toolError(fmt.Errorf("marshal result: %w", err))
		}
		fmt.Fprintln(w, string(data))
	default:
		if len(result.Matches) > 0 {
			fmt.Fprintln(w, result.Report())
		}
	}

	if !result.Passed {
		return &ExitError{Code: ExitUnused}
	}
	return nil
}

// recordRun stores result in the history database. Failures are logged and
// never change the outcome of the check.
func recordRun(ctx context.Context, url string, result *checks.Result, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	d, err := db.Open(ctx, url)
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
		return
	}
	defer d.Close()

	if err := d.Migrate(ctx); err != nil {
		logger.Warn("migrate run history", "error", err)
		return
	}
	id, err := d.LogCheckRun(ctx, db.CheckRun{
		CheckName:    result.CheckName,
		Target:       result.Target,
		Passed:       result.Passed,
		ToolExitCode: result.ToolExitCode,
		DurationMs:   result.DurationMs,
		Summary:      result.Summary,
		Matches:      result.Matches,
	})
	if err != nil {
		logger.Warn("record check run", "error", err)
		return
	}
	logger.Debug("recorded check run", "id", id)
}
