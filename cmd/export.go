package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/boundary-api/internal/export"
	"github.com/sells-group/boundary-api/internal/region"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dataset listings to files",
}

var exportCentersCmd = &cobra.Command{
	Use:   "centers",
	Short: "Write the sum centers of one aimag to an XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		aimagID, _ := cmd.Flags().GetInt64("aimag")
		out, _ := cmd.Flags().GetString("out")
		if aimagID <= 0 {
			return eris.New("export centers: --aimag is required")
		}

		if err := cfg.Validate("export"); err != nil {
			return err
		}

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := export.ProvinceCenters(ctx, region.NewPostgresRepository(pool), aimagID, out)
		if err != nil {
			return eris.Wrap(err, "export centers")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sum centers to %s\n", n, out)
		return nil
	},
}

func init() {
	exportCentersCmd.Flags().Int64("aimag", 0, "aimag id (gid)")
	exportCentersCmd.Flags().String("out", "centers.xlsx", "output file")
	exportCmd.AddCommand(exportCentersCmd)
	rootCmd.AddCommand(exportCmd)
}
