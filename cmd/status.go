package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/boundary-api/internal/gadm"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show boundary dataset load status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("status"); err != nil {
			return err
		}

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		status, err := gadm.LoadStatus(ctx, pool)
		if err != nil {
			return eris.Wrap(err, "status")
		}

		printStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(w io.Writer, status []gadm.StatusRow) {
	if len(status) == 0 {
		fmt.Fprintln(w, "No boundary data loaded yet")
		return
	}

	fmt.Fprintf(w, "%-16s %-7s %8s %10s  %-16s %s\n",
		"Table", "Country", "Rows", "Duration", "Loaded At", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, s := range status {
		fmt.Fprintf(w, "%-16s %-7s %8d %8dms  %-16s %s\n",
			s.TableName, s.Country, s.RowCount, s.DurationMs,
			s.LoadedAt.Format("2006-01-02 15:04"), s.Source)
	}
}
