package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-api/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "boundary-api",
	Short: "Mongolian administrative boundary API",
	Long: `Serves aimag (province) and sum (district) boundaries from PostGIS as GeoJSON,
with centroids, hierarchical listings and name search. Also migrates the schema
and loads the GADM 4.1 dataset.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotenv(); err != nil {
			return err
		}

		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadDotenv loads .env into the process environment. A missing file is
// fine; variables already set win.
func loadDotenv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrap(err, "load .env")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
