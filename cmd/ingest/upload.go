package main

import (
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/atlas/ingest/internal/source"
)

func newUploadCmd() *cobra.Command {
	var countyName string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Archive finalized county exports to Cloud Storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newAppWithoutDB()
			if err != nil {
				return err
			}

			counties := source.Counties()
			if countyName != "" {
				county, err := source.Lookup(countyName)
				if err != nil {
					return err
				}
				counties = []source.County{county}
			}

			return uploadCounties(ctx, a, counties)
		},
	}

	cmd.Flags().StringVar(&countyName, "county", "", "upload a single county by registry key")
	return cmd
}
