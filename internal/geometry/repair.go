package geometry

import (
	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"
)

const (
	// degenerateArea is the area below which a polygon is considered a
	// sliver with no salvageable interior.
	degenerateArea = 1e-10
	// simplifyTolerance is the minimal tolerance applied before the
	// zero-distance buffer when canonicalization alone cannot fix a polygon.
	simplifyTolerance = 1e-6
	bufferQuadSegs    = 8
)

// Repairer attempts to salvage invalid geometries before they are rejected.
// Canonicalization (MakeValid) is tried first; polygons that remain invalid
// go through simplify-plus-zero-buffer, and MultiPolygons are salvaged part
// by part. A nil result means the geometry is unsalvageable and the feature
// should be persisted without spatial data.
type Repairer struct {
	log *logger.Logger
}

// NewRepairer creates a new Repairer instance.
func NewRepairer(log *logger.Logger) *Repairer {
	return &Repairer{log: log}
}

// Repair returns a valid replacement for g, or nil when no salvage strategy
// produced a valid geometry with positive area.
func (r *Repairer) Repair(g geom.T) geom.T {
	gg, err := toGEOS(g)
	if err != nil {
		r.log.Warn("Repair failed: geometry could not be loaded", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil
	}
	defer gg.Destroy()

	fixed := r.repairGeom(gg)
	if fixed == nil {
		return nil
	}
	defer fixed.Destroy()

	result, err := fromGEOS(fixed)
	if err != nil {
		r.log.Warn("Repair failed: result could not be decoded", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil
	}
	return result
}

func (r *Repairer) repairGeom(gg *geos.Geom) *geos.Geom {
	repaired := gg.MakeValid()
	if repaired.IsValid() {
		// MakeValid keeps collapsed rings alive as valid linework. A
		// result without polygonal area is still unsalvageable.
		if !polygonal(repaired) || repaired.Area() < degenerateArea {
			return nil
		}
		return repaired
	}

	switch repaired.TypeID() {
	case geos.TypeIDPolygon:
		return r.repairPolygon(repaired)
	case geos.TypeIDMultiPolygon:
		return r.repairMultiPolygon(repaired)
	}
	return nil
}

func polygonal(g *geos.Geom) bool {
	switch g.TypeID() {
	case geos.TypeIDPolygon, geos.TypeIDMultiPolygon:
		return true
	}
	return false
}

// repairPolygon rejects slivers outright, then tries a minimal simplify
// followed by a zero-distance buffer.
func (r *Repairer) repairPolygon(p *geos.Geom) *geos.Geom {
	if p.Area() < degenerateArea {
		return nil
	}
	buffered := p.Simplify(simplifyTolerance).Buffer(0, bufferQuadSegs)
	if buffered.IsValid() && buffered.Area() > 0 {
		return buffered
	}
	return nil
}

// repairMultiPolygon repairs each part independently and reassembles the
// parts that survive with area above the sliver threshold.
func (r *Repairer) repairMultiPolygon(mp *geos.Geom) *geos.Geom {
	var valid []*geos.Geom
	for i := 0; i < mp.NumGeometries(); i++ {
		part := mp.Geometry(i)
		if part.IsValid() && part.Area() > degenerateArea {
			valid = append(valid, part.Clone())
			continue
		}
		if fixed := r.repairGeom(part); fixed != nil && fixed.Area() > degenerateArea {
			valid = append(valid, fixed)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return geos.NewCollection(geos.TypeIDMultiPolygon, valid)
}
