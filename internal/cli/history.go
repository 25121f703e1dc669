package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasnoah/checkresources/internal/config"
	"github.com/lucasnoah/checkresources/internal/db"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded check runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		limit, _ := cmd.Flags().GetInt("limit")
		showMatches, _ := cmd.Flags().GetBool("matches")

		d, cleanup, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		runs, err := d.GetCheckHistory(cmd.Context(), target, limit)
		if err != nil {
			return fmt.Errorf("get check history: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "No check runs found.")
			return nil
		}

		fmt.Fprintf(w, "%-6s %-20s %-20s %-6s %-4s %-8s %s\n",
			"ID", "TIME", "TARGET", "RESULT", "LINT", "DURATION", "SUMMARY")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))

		for _, r := range runs {
			result := "FAIL"
			if r.Passed {
				result = "PASS"
			}
			fmt.Fprintf(w, "%-6d %-20s %-20s %-6s %-4d %-8s %s\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Target, result,
				r.ToolExitCode, fmt.Sprintf("%dms", r.DurationMs), r.Summary)
			if showMatches {
				for _, m := range r.Matches {
					fmt.Fprintf(w, "       %s\n", m)
				}
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("target", "", "Filter by checked path")
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.Flags().Bool("matches", false, "Print the reported lines of each run")
}

// openDB connects to the history database and migrates it, returning a cleanup func.
func openDB(cmd *cobra.Command) (*db.DB, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("no database configured (set --database-url, database_url or $" + config.DatabaseURLEnv + ")")
	}
	d, err := db.Open(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Migrate(cmd.Context()); err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, d.Close, nil
}
