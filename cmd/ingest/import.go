package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/atlas/ingest/internal/geometry"
	"github.com/stwalsh4118/atlas/ingest/internal/ingest"
	"github.com/stwalsh4118/atlas/ingest/internal/repository"
	"github.com/stwalsh4118/atlas/ingest/internal/source"
	"github.com/stwalsh4118/atlas/ingest/internal/upload"
)

func newImportCmd() *cobra.Command {
	var (
		countyName    string
		all           bool
		skipUpload    bool
		migrateFirst  bool
		recreateTable bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import county GeoJSON exports into the parcels table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if countyName == "" && !all {
				return fmt.Errorf("either --county or --all is required")
			}
			if countyName != "" && all {
				return fmt.Errorf("--county and --all are mutually exclusive")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			counties := source.Counties()
			if countyName != "" {
				county, err := source.Lookup(countyName)
				if err != nil {
					return err
				}
				counties = []source.County{county}
			}

			if migrateFirst {
				if err := a.db.Migrate(ctx, a.cfg.Ingest.Table, recreateTable); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
			}

			importer := buildImporter(a)
			outcomes, err := importer.ImportAll(ctx, counties)
			if err != nil {
				return err
			}

			for name, outcome := range outcomes {
				fmt.Printf("%s: %d written (%d spatial, %d non-spatial), %d skipped\n",
					name, outcome.Succeeded, outcome.SpatialWrites,
					outcome.NonSpatialWrites, outcome.Skipped)
			}

			if !skipUpload && a.cfg.Storage.Bucket != "" {
				if err := uploadCounties(ctx, a, counties); err != nil {
					// The table is already written; a failed archive upload
					// should not fail the import.
					a.log.Error("Upload of finalized exports failed", err, nil)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&countyName, "county", "", "import a single county by registry key")
	cmd.Flags().BoolVar(&all, "all", false, "import every supported county")
	cmd.Flags().BoolVar(&skipUpload, "skip-gcs-upload", false, "do not archive the source files to Cloud Storage")
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "run schema migration before importing")
	cmd.Flags().BoolVar(&recreateTable, "recreate-table", false, "with --migrate, drop and recreate the parcels table")

	return cmd
}

func buildImporter(a *app) *ingest.Importer {
	store := repository.NewParcelStore(a.db, a.cfg.Ingest.Table)
	encoder := geometry.NewEncoder(a.log)
	engine := ingest.NewEngine(store, encoder, a.log, a.cfg.Ingest.BatchSize)
	reader := source.NewReader(a.log)
	return ingest.NewImporter(reader, engine, a.log, a.cfg.Ingest.DataDir)
}

func uploadCounties(ctx context.Context, a *app, counties []source.County) error {
	uploader, err := upload.NewUploader(ctx, a.cfg.Storage.Bucket, a.cfg.Storage.Prefix, a.log)
	if err != nil {
		return err
	}
	defer uploader.Close()
	return uploader.UploadAll(ctx, counties, a.cfg.Ingest.DataDir)
}
