package ingest

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/atlas/ingest/internal/geometry"
	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/stwalsh4118/atlas/ingest/internal/models"
	"github.com/stwalsh4118/atlas/ingest/internal/repository"
	"github.com/twpayne/go-geom"
)

// DefaultBatchSize is the number of records written per transaction when the
// configuration does not say otherwise.
const DefaultBatchSize = 1000

// Item pairs a mapped parcel record with its raw source geometry. The engine
// encodes the geometry itself so that encoding failures can degrade a single
// record instead of dropping it.
type Item struct {
	Record   *models.ParcelRecord
	Geometry geom.T
}

// Engine writes parcel records to the database in batches. Each batch is one
// transaction; each record inside it runs in a nested transaction so a failed
// record rolls back alone while the rest of the batch commits.
type Engine struct {
	store     repository.Store
	encoder   *geometry.Encoder
	log       *logger.Logger
	batchSize int
}

// NewEngine creates an Engine with the given store and batch size. A batch
// size below 1 falls back to DefaultBatchSize.
func NewEngine(store repository.Store, encoder *geometry.Encoder, log *logger.Logger, batchSize int) *Engine {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Engine{
		store:     store,
		encoder:   encoder,
		log:       log,
		batchSize: batchSize,
	}
}

// Run ingests all items and returns the aggregated outcome. The only error
// that aborts a run is failing to open a batch transaction, which means the
// database itself is unavailable; everything else degrades per record or per
// batch. The returned outcome is valid even when err is non-nil.
func (e *Engine) Run(ctx context.Context, items []Item) (*Outcome, error) {
	outcome := NewOutcome()
	total := len(items)

	for start := 0; start < total; start += e.batchSize {
		end := start + e.batchSize
		if end > total {
			end = total
		}

		e.log.Info("Processing batch", map[string]interface{}{
			"from":  start,
			"to":    end,
			"total": total,
		})

		if err := e.runBatch(ctx, items[start:end], outcome); err != nil {
			return outcome, err
		}
	}

	e.logReport(outcome)
	return outcome, nil
}

func (e *Engine) runBatch(ctx context.Context, batch []Item, outcome *Outcome) error {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	var written []string
	for _, item := range batch {
		rec := item.Record
		outcome.Track(rec.GlobalParcelUID)
		e.resolveGeometry(item, outcome)

		if err := e.writeRecord(ctx, tx, rec, outcome); err != nil {
			e.log.Error("Skipping record after write failure", err, map[string]interface{}{
				"parcel_uid": rec.GlobalParcelUID,
			})
			outcome.Skipped++
			outcome.MarkFailed(rec.GlobalParcelUID)
			continue
		}

		if rec.HasSpatialData {
			outcome.SpatialWrites++
		} else {
			outcome.NonSpatialWrites++
		}
		outcome.Succeeded++
		outcome.MarkSucceeded(rec.GlobalParcelUID)
		written = append(written, rec.GlobalParcelUID)
	}

	if err := tx.Commit(ctx); err != nil {
		e.log.Error("Batch commit failed, rolling back", err, map[string]interface{}{
			"records": len(batch),
		})
		_ = tx.Rollback(ctx)
		// Nothing from this batch reached the table, whatever the
		// per-record bookkeeping said.
		outcome.Demote(written)
	}
	return nil
}

// resolveGeometry encodes the item's geometry onto its record. A missing,
// empty, or unsalvageable geometry leaves the record non-spatial; the record
// itself is always kept.
func (e *Engine) resolveGeometry(item Item, outcome *Outcome) {
	rec := item.Record
	if item.Geometry == nil {
		outcome.NullGeometries++
		return
	}
	if geometry.IsEmpty(item.Geometry) {
		outcome.EmptyGeometries++
		return
	}

	data := e.encoder.Encode(item.Geometry, rec.GlobalParcelUID)
	if data == nil {
		outcome.RepairFailures++
		return
	}
	rec.Geometry = data
	rec.HasSpatialData = true
}

// writeRecord upserts one record inside its own nested transaction. When a
// spatial write fails, the savepoint is rolled back and the same record is
// retried without geometry in a fresh savepoint, so invalid spatial data
// costs the row its geometry but not its attributes.
func (e *Engine) writeRecord(ctx context.Context, tx repository.Tx, rec *models.ParcelRecord, outcome *Outcome) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin record transaction: %w", err)
	}

	err = e.upsert(ctx, sp, rec)
	if err != nil && rec.HasSpatialData {
		e.log.Warn("Spatial write failed, retrying without geometry", map[string]interface{}{
			"parcel_uid": rec.GlobalParcelUID,
			"error":      err.Error(),
		})
		_ = sp.Rollback(ctx)
		outcome.RepairFailures++

		rec.Geometry = nil
		rec.HasSpatialData = false

		sp, err = tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin record transaction: %w", err)
		}
		err = e.upsert(ctx, sp, rec)
	}

	if err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

func (e *Engine) upsert(ctx context.Context, tx repository.Tx, rec *models.ParcelRecord) error {
	exists, err := tx.Exists(ctx, rec.GlobalParcelUID)
	if err != nil {
		return err
	}
	if exists {
		return tx.Update(ctx, rec)
	}
	return tx.Insert(ctx, rec)
}

func (e *Engine) logReport(outcome *Outcome) {
	report := outcome.Reconcile()

	e.log.Info("Ingestion finished", map[string]interface{}{
		"succeeded":          outcome.Succeeded,
		"spatial_writes":     outcome.SpatialWrites,
		"non_spatial_writes": outcome.NonSpatialWrites,
		"skipped":            outcome.Skipped,
		"repair_failures":    outcome.RepairFailures,
		"null_geometries":    outcome.NullGeometries,
		"empty_geometries":   outcome.EmptyGeometries,
		"unique_parcels":     report.ProcessedUnique,
	})

	if len(report.Duplicates) > 0 {
		e.log.Warn("Duplicate parcel identifiers in source", map[string]interface{}{
			"count": len(report.Duplicates),
			"ids":   report.DuplicateIDs(),
		})
	}
	if len(report.Unresolved) > 0 {
		e.log.Warn("Parcels processed but neither succeeded nor failed", map[string]interface{}{
			"count": len(report.Unresolved),
			"ids":   report.Unresolved,
		})
	}
	if report.EmptyIDs > 0 {
		e.log.Warn("Records with empty parcel identifier", map[string]interface{}{
			"count": report.EmptyIDs,
		})
	}
}
