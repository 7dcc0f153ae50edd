package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/atlas/ingest/internal/database"
	"github.com/stwalsh4118/atlas/ingest/internal/models"
)

// ParcelStore is the pgx-backed Store over a single parcels table.
type ParcelStore struct {
	db    *database.Database
	table string
}

// NewParcelStore creates a ParcelStore writing to the given table.
func NewParcelStore(db *database.Database, table string) *ParcelStore {
	return &ParcelStore{db: db, table: table}
}

// Begin opens a top-level batch transaction against the pool.
func (s *ParcelStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &parcelTx{tx: tx, table: s.table}, nil
}

type parcelTx struct {
	tx    pgx.Tx
	table string
}

// Begin opens a nested transaction. pgx implements this as a savepoint, so
// rolling it back discards only the statements issued inside it.
func (t *parcelTx) Begin(ctx context.Context) (Tx, error) {
	nested, err := t.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin nested transaction: %w", err)
	}
	return &parcelTx{tx: nested, table: t.table}, nil
}

func (t *parcelTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *parcelTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *parcelTx) Exists(ctx context.Context, uid string) (bool, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE global_parcel_uid = $1`, t.table)

	var id int
	err := t.tx.QueryRow(ctx, query, uid).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check parcel %s: %w", uid, err)
	}
	return true, nil
}

func (t *parcelTx) Insert(ctx context.Context, rec *models.ParcelRecord) error {
	var query string
	args := []interface{}{
		rec.GlobalParcelUID,
		rec.CountyParcelID,
		rec.OwnerName,
		rec.PhysicalAddress,
		rec.MailingAddress,
		rec.Acreage,
		rec.PropertyValue,
		rec.LandTypeDescription,
		rec.DeedReference,
		rec.OwnerCity,
		rec.OwnerState,
		rec.OwnerZip,
		rec.PropertyDetailsLink,
		rec.TaxDetailsLink,
		rec.ClerkRecordsLink,
		rec.Address,
		rec.County,
		rec.State,
	}

	if rec.HasSpatialData {
		query = fmt.Sprintf(`
			INSERT INTO %s (
				global_parcel_uid, county_parcel_id_num, owner_name,
				physical_address, mailing_address, acreage, property_value,
				land_type_description, deed_reference, owner_city, owner_state,
				owner_zip, property_details_link, tax_details_link,
				clerk_records_link, address, county, state,
				geometry, has_spatial_data
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18,
				ST_GeomFromWKB($19, 4326), TRUE
			)`, t.table)
		args = append(args, rec.Geometry)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s (
				global_parcel_uid, county_parcel_id_num, owner_name,
				physical_address, mailing_address, acreage, property_value,
				land_type_description, deed_reference, owner_city, owner_state,
				owner_zip, property_details_link, tax_details_link,
				clerk_records_link, address, county, state,
				geometry, has_spatial_data
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18,
				NULL, FALSE
			)`, t.table)
	}

	if _, err := t.tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert parcel %s: %w", rec.GlobalParcelUID, err)
	}
	return nil
}

func (t *parcelTx) Update(ctx context.Context, rec *models.ParcelRecord) error {
	var query string
	args := []interface{}{
		rec.CountyParcelID,
		rec.OwnerName,
		rec.PhysicalAddress,
		rec.MailingAddress,
		rec.Acreage,
		rec.PropertyValue,
		rec.LandTypeDescription,
		rec.DeedReference,
		rec.OwnerCity,
		rec.OwnerState,
		rec.OwnerZip,
		rec.PropertyDetailsLink,
		rec.TaxDetailsLink,
		rec.ClerkRecordsLink,
		rec.Address,
		rec.County,
		rec.State,
	}

	if rec.HasSpatialData {
		query = fmt.Sprintf(`
			UPDATE %s SET
				county_parcel_id_num = $1, owner_name = $2,
				physical_address = $3, mailing_address = $4, acreage = $5,
				property_value = $6, land_type_description = $7,
				deed_reference = $8, owner_city = $9, owner_state = $10,
				owner_zip = $11, property_details_link = $12,
				tax_details_link = $13, clerk_records_link = $14,
				address = $15, county = $16, state = $17,
				geometry = ST_GeomFromWKB($18, 4326), has_spatial_data = TRUE,
				updated_at = CURRENT_TIMESTAMP
			WHERE global_parcel_uid = $19`, t.table)
		args = append(args, rec.Geometry, rec.GlobalParcelUID)
	} else {
		query = fmt.Sprintf(`
			UPDATE %s SET
				county_parcel_id_num = $1, owner_name = $2,
				physical_address = $3, mailing_address = $4, acreage = $5,
				property_value = $6, land_type_description = $7,
				deed_reference = $8, owner_city = $9, owner_state = $10,
				owner_zip = $11, property_details_link = $12,
				tax_details_link = $13, clerk_records_link = $14,
				address = $15, county = $16, state = $17,
				geometry = NULL, has_spatial_data = FALSE,
				updated_at = CURRENT_TIMESTAMP
			WHERE global_parcel_uid = $18`, t.table)
		args = append(args, rec.GlobalParcelUID)
	}

	if _, err := t.tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update parcel %s: %w", rec.GlobalParcelUID, err)
	}
	return nil
}
