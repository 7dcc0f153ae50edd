package geometry

import (
	"encoding/binary"

	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// Encoder converts raw parcel geometries into the little-endian 2-D WKB
// stored in PostGIS. It is the linear pipeline the importer runs per record:
//
//	reject nil/empty -> clean rings -> repair if invalid ->
//	reduce to 2-D -> re-validate (one more repair pass) -> WKB
//
// Ring cleaning runs first: NaN and out-of-domain coordinates cannot cross
// the GEOS boundary, so the validity check only sees cleaned geometry.
// Every failure along the way means "no spatial data", never a fatal error.
// SRID 4326 is supplied at the SQL call site, not embedded in the WKB.
type Encoder struct {
	cleaner  *Cleaner
	repairer *Repairer
	log      *logger.Logger
}

// NewEncoder creates a new Encoder instance.
func NewEncoder(log *logger.Logger) *Encoder {
	return &Encoder{
		cleaner:  NewCleaner(log),
		repairer: NewRepairer(log),
		log:      log,
	}
}

// Encode returns the WKB encoding of g, or nil when the geometry is missing,
// empty, or unsalvageable. Encode is deterministic and has no side effects
// beyond diagnostic logging tagged with recordID.
func (e *Encoder) Encode(g geom.T, recordID string) []byte {
	log := e.log.WithParcel(recordID)

	if g == nil {
		log.Debug("Geometry is nil", nil)
		return nil
	}
	if IsEmpty(g) {
		log.Debug("Geometry is empty", nil)
		return nil
	}

	if g = e.cleaner.CleanGeometry(g); g == nil {
		log.Warn("Coordinate cleaning rejected geometry", nil)
		return nil
	}

	if !IsValid(g) {
		log.Debug("Geometry is invalid, attempting repair", nil)
		if g = e.repairer.Repair(g); g == nil {
			log.Warn("Could not repair geometry", nil)
			return nil
		}
	}

	reduced := To2D(g)
	if reduced == nil {
		log.Warn("2-D reduction rejected geometry", nil)
		return nil
	}
	if !IsValid(reduced) {
		log.Debug("2-D geometry is invalid, attempting repair", nil)
		if reduced = e.repairer.Repair(reduced); reduced == nil {
			log.Warn("Could not repair 2-D geometry", nil)
			return nil
		}
	}

	data, err := wkb.Marshal(reduced, binary.LittleEndian)
	if err != nil {
		// Degenerate input can still blow up the encoder; treated the
		// same as unsalvageable geometry.
		log.Error("WKB encoding failed", err, nil)
		return nil
	}
	return data
}
