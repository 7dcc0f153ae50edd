package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parcel GeoJSON ingestion pipeline for the atlas parcel database",
	Long: `ingest loads finalized county ownership GeoJSON exports into the
PostGIS parcels table, validating and repairing geometries along the way.
Records whose geometry cannot be salvaged are kept without spatial data.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(
		newImportCmd(),
		newMigrateCmd(),
		newUploadCmd(),
		newStatsCmd(),
		newTegolaConfigCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
