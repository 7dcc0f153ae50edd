package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/stwalsh4118/atlas/ingest/internal/mapper"
	"github.com/stwalsh4118/atlas/ingest/internal/source"
)

// Importer runs the full pipeline for county exports: read the GeoJSON file,
// map each feature to a parcel record, and hand the lot to the engine.
type Importer struct {
	reader  *source.Reader
	engine  *Engine
	log     *logger.Logger
	dataDir string
}

// NewImporter creates an Importer rooted at dataDir.
func NewImporter(reader *source.Reader, engine *Engine, log *logger.Logger, dataDir string) *Importer {
	return &Importer{
		reader:  reader,
		engine:  engine,
		log:     log,
		dataDir: dataDir,
	}
}

// ImportCounty ingests one county's export. A missing or unreadable source
// file is fatal for this county only.
func (i *Importer) ImportCounty(ctx context.Context, county source.County) (*Outcome, error) {
	runID := uuid.New().String()
	log := i.log.WithRun(runID).WithCounty(county.Name)

	path := county.GeoJSONPath(i.dataDir)
	log.Info("Starting county import", map[string]interface{}{
		"path": path,
	})

	features, err := i.reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("county %s: %w", county.Name, err)
	}

	items := make([]Item, 0, len(features))
	for _, f := range features {
		rec := mapper.Map(f.Properties, county.Name)
		if rec.State == "" {
			rec.State = county.State
		}
		items = append(items, Item{Record: rec, Geometry: f.Geometry})
	}

	outcome, err := i.engine.Run(ctx, items)
	if err != nil {
		return outcome, fmt.Errorf("county %s: %w", county.Name, err)
	}

	log.Info("County import finished", map[string]interface{}{
		"features":  len(features),
		"succeeded": outcome.Succeeded,
		"skipped":   outcome.Skipped,
	})
	return outcome, nil
}

// ImportAll ingests every given county in order. One county failing does not
// stop the others; the error returned is non-nil only when every county
// failed.
func (i *Importer) ImportAll(ctx context.Context, counties []source.County) (map[string]*Outcome, error) {
	outcomes := make(map[string]*Outcome, len(counties))
	failures := 0

	for _, county := range counties {
		outcome, err := i.ImportCounty(ctx, county)
		if err != nil {
			failures++
			i.log.Error("County import failed", err, map[string]interface{}{
				"county": county.Name,
			})
		}
		if outcome != nil {
			outcomes[county.Name] = outcome
		}
	}

	if failures == len(counties) && len(counties) > 0 {
		return outcomes, fmt.Errorf("all %d county imports failed", len(counties))
	}
	return outcomes, nil
}
