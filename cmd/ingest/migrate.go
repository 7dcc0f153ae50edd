package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the parcels table schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.db.Migrate(ctx, a.cfg.Ingest.Table, recreate); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("table %s is up to date\n", a.cfg.Ingest.Table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate-table", false, "drop and recreate the parcels table")
	return cmd
}
