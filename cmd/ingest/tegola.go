package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/atlas/ingest/internal/tileserver"
)

func newTegolaConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tegola-config",
		Short: "Render a tegola tile server config for the parcels table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAppWithoutDB()
			if err != nil {
				return err
			}

			params := tileserver.NewParams(a.cfg.Database, a.cfg.Ingest.Table)

			if output == "" {
				return tileserver.Write(os.Stdout, params)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()

			if err := tileserver.Write(f, params); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the config to a file instead of stdout")
	return cmd
}
