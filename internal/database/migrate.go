package database

import (
	"context"
	"fmt"
)

// Migrate brings the parcels table and its indexes up to date.
// When forceRecreate is true the existing table is dropped first, losing all
// data. For pre-existing tables the columns added since the first schema
// version (global_parcel_uid, has_spatial_data) are added in place.
func (db *Database) Migrate(ctx context.Context, table string, forceRecreate bool) error {
	if err := db.EnableExtensions(ctx); err != nil {
		return err
	}

	exists, err := db.tableExists(ctx, table)
	if err != nil {
		return err
	}

	if forceRecreate && exists {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf(`DROP TABLE %s CASCADE`, table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
		exists = false
	}

	if !exists {
		if err := db.createParcelTable(ctx, table); err != nil {
			return err
		}
	} else {
		if err := db.upgradeParcelTable(ctx, table); err != nil {
			return err
		}
	}

	return db.createIndexes(ctx, table)
}

// EnableExtensions enables the PostGIS extensions required by the schema.
func (db *Database) EnableExtensions(ctx context.Context) error {
	for _, ext := range []string{"postgis", "postgis_topology"} {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS %s`, ext)); err != nil {
			return fmt.Errorf("failed to enable extension %s: %w", ext, err)
		}
	}
	return nil
}

func (db *Database) tableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for table %s: %w", table, err)
	}
	return exists, nil
}

func (db *Database) columnExists(ctx context.Context, table, column string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_name = $1 AND column_name = $2
		)`, table, column).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for column %s.%s: %w", table, column, err)
	}
	return exists, nil
}

func (db *Database) createParcelTable(ctx context.Context, table string) error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE %s (
			id SERIAL PRIMARY KEY,
			global_parcel_uid VARCHAR(255) UNIQUE NOT NULL,
			county_parcel_id_num VARCHAR(255),
			owner_name TEXT,
			physical_address TEXT,
			mailing_address TEXT,
			acreage NUMERIC,
			property_value NUMERIC,
			land_type_description TEXT,
			deed_reference TEXT,
			owner_city TEXT,
			owner_state TEXT,
			owner_zip TEXT,
			property_details_link TEXT,
			tax_details_link TEXT,
			clerk_records_link TEXT,
			address TEXT,
			county VARCHAR(100),
			state VARCHAR(10),
			geometry GEOMETRY,
			has_spatial_data BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, table)

	if _, err := db.Pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// upgradeParcelTable adds columns introduced after the first schema version.
func (db *Database) upgradeParcelTable(ctx context.Context, table string) error {
	additions := []struct {
		column string
		ddl    string
	}{
		{"global_parcel_uid", "ADD COLUMN global_parcel_uid VARCHAR(255)"},
		{"has_spatial_data", "ADD COLUMN has_spatial_data BOOLEAN DEFAULT FALSE"},
	}

	for _, add := range additions {
		exists, err := db.columnExists(ctx, table, add.column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf(`ALTER TABLE %s %s`, table, add.ddl)); err != nil {
			return fmt.Errorf("failed to add column %s to %s: %w", add.column, table, err)
		}
	}
	return nil
}

func (db *Database) createIndexes(ctx context.Context, table string) error {
	indexes := []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_geometry ON %s USING GIST (geometry)`, table, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_county ON %s (county)`, table, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_global_parcel_uid ON %s (global_parcel_uid)`, table, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_parcel_id ON %s (county_parcel_id_num)`, table, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_has_spatial ON %s (has_spatial_data)`, table, table),
	}

	for _, ddl := range indexes {
		if _, err := db.Pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", table, err)
		}
	}
	return nil
}
