package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-api/internal/gadm"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the GADM 4.1 boundary dataset into PostGIS",
	Long: `Downloads the GADM 4.1 shapefile archive for the configured country (or reads
already-extracted shapefiles from --dir), parses levels 1 and 2, and replaces the
contents of the boundary tables in one transaction. Runs migrations first.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("load"); err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("dir")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if !dryRun {
			if _, err := gadm.Migrate(ctx, pool); err != nil {
				return eris.Wrap(err, "load: migrate")
			}
		}

		opts := gadm.LoadOptions{
			BaseURL:   cfg.GADM.BaseURL,
			Country:   cfg.GADM.Country,
			TempDir:   cfg.GADM.TempDir,
			Dir:       dir,
			BatchSize: batchSize,
			DryRun:    dryRun,
		}

		zap.L().Info("starting GADM load",
			zap.String("country", opts.Country),
			zap.String("dir", opts.Dir),
			zap.Bool("dry_run", opts.DryRun),
		)

		loads, err := gadm.Load(ctx, pool, opts)
		if err != nil {
			return eris.Wrap(err, "load")
		}

		printLoads(cmd.OutOrStdout(), loads, dryRun)
		return nil
	},
}

func init() {
	loadCmd.Flags().String("dir", "", "directory with extracted gadm41_<CC>_{1,2}.shp files (skips download)")
	loadCmd.Flags().Bool("dry-run", false, "parse and count records without writing to the database")
	loadCmd.Flags().Int("batch-size", 0, "COPY batch size (default 5000)")
	rootCmd.AddCommand(loadCmd)
}

func printLoads(w io.Writer, loads []gadm.TableLoad, dryRun bool) {
	verb := "loaded"
	if dryRun {
		verb = "parsed"
	}
	for _, l := range loads {
		fmt.Fprintf(w, "%-16s %8d rows %s\n", l.Table, l.Rows, verb)
	}
}
