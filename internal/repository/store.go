package repository

import (
	"context"

	"github.com/stwalsh4118/atlas/ingest/internal/models"
)

// Store abstracts the transactional persistence used by the upsert engine.
type Store interface {
	// Begin opens a batch transaction. An error here means the database is
	// unavailable and is fatal for the run.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one transaction scope over the parcels table. Begin on a Tx opens a
// nested transaction (a savepoint) so that one record's statements can be
// rolled back without aborting the rest of the batch.
type Tx interface {
	Begin(ctx context.Context) (Tx, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Exists reports whether a row with the given global parcel identifier
	// is already persisted.
	Exists(ctx context.Context, uid string) (bool, error)
	// Insert writes a new row for the record. The geometry bytes, when
	// present, are bound through the spatial constructor with SRID 4326.
	Insert(ctx context.Context, rec *models.ParcelRecord) error
	// Update overwrites all attribute columns and the geometry/flag of the
	// row keyed by the record's global parcel identifier.
	Update(ctx context.Context, rec *models.ParcelRecord) error
}
