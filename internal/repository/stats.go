package repository

import (
	"context"
	"fmt"
)

// TableStats summarizes the contents of the parcels table after a run.
type TableStats struct {
	TotalParcels      int64            `json:"total_parcels"`
	SpatialParcels    int64            `json:"spatial_parcels"`
	NonSpatialParcels int64            `json:"non_spatial_parcels"`
	Counties          map[string]int64 `json:"counties"`
}

// Stats reads row counts for the parcels table: total, split by the
// has_spatial_data flag, and per county.
func (s *ParcelStore) Stats(ctx context.Context) (*TableStats, error) {
	stats := &TableStats{Counties: make(map[string]int64)}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	if err := s.db.Pool.QueryRow(ctx, query).Scan(&stats.TotalParcels); err != nil {
		return nil, fmt.Errorf("failed to count parcels: %w", err)
	}

	query = fmt.Sprintf(`
		SELECT has_spatial_data, COUNT(*)
		FROM %s
		GROUP BY has_spatial_data`, s.table)
	rows, err := s.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count spatial parcels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var spatial bool
		var count int64
		if err := rows.Scan(&spatial, &count); err != nil {
			return nil, fmt.Errorf("failed to scan spatial counts: %w", err)
		}
		if spatial {
			stats.SpatialParcels = count
		} else {
			stats.NonSpatialParcels = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spatial counts: %w", err)
	}

	query = fmt.Sprintf(`
		SELECT county, COUNT(*)
		FROM %s
		GROUP BY county
		ORDER BY county`, s.table)
	countyRows, err := s.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count parcels per county: %w", err)
	}
	defer countyRows.Close()
	for countyRows.Next() {
		var county string
		var count int64
		if err := countyRows.Scan(&county, &count); err != nil {
			return nil, fmt.Errorf("failed to scan county counts: %w", err)
		}
		stats.Counties[county] = count
	}
	if err := countyRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read county counts: %w", err)
	}

	return stats, nil
}
