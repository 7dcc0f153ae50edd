package geometry

import (
	"fmt"

	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/twpayne/go-geom"
)

// Cleaner filters out-of-domain coordinates from polygon rings before the
// geometry is handed to the binary encoder. Dropping points can leave a ring
// too small to close a polygon; the exterior ring rejects the whole polygon
// in that case, while an interior ring only loses its hole.
type Cleaner struct {
	log *logger.Logger
}

// NewCleaner creates a new Cleaner instance.
func NewCleaner(log *logger.Logger) *Cleaner {
	return &Cleaner{log: log}
}

// CleanRing filters invalid coordinates out of a ring one at a time,
// preserving order, and reports how many were dropped. An open ring, whether
// it arrived that way or filtering removed its closure point, is re-closed on
// its first remaining coordinate. Cleaning an already-clean ring returns it
// unchanged.
func (c *Cleaner) CleanRing(ring []geom.Coord, label string) ([]geom.Coord, int) {
	cleaned := make([]geom.Coord, 0, len(ring))
	dropped := 0
	for _, coord := range ring {
		if ValidCoordinate(coord) {
			cleaned = append(cleaned, coord)
		} else {
			dropped++
		}
	}

	if dropped > 0 {
		c.log.Warn("Dropped invalid coordinates from ring", map[string]interface{}{
			"ring":     label,
			"dropped":  dropped,
			"original": len(ring),
		})
	}

	return closeRing(cleaned), dropped
}

// CleanGeometry runs ring cleaning across every ring of a polygonal geometry.
// It returns nil when the geometry cannot survive cleaning: a Polygon whose
// exterior falls below the minimum ring size, or a MultiPolygon with no
// surviving parts. Non-polygonal geometries pass through untouched.
func (c *Cleaner) CleanGeometry(g geom.T) geom.T {
	switch t := g.(type) {
	case *geom.Polygon:
		return c.cleanPolygon(t)
	case *geom.MultiPolygon:
		return c.cleanMultiPolygon(t)
	default:
		return g
	}
}

func (c *Cleaner) cleanPolygon(p *geom.Polygon) geom.T {
	rings := p.Coords()
	if len(rings) == 0 {
		return nil
	}

	exterior, _ := c.CleanRing(rings[0], "exterior ring")
	if len(exterior) < minRingPoints {
		c.log.Warn("Exterior ring has too few valid points after cleaning", map[string]interface{}{
			"points": len(exterior),
		})
		return nil
	}

	cleaned := [][]geom.Coord{exterior}
	for i, ring := range rings[1:] {
		interior, _ := c.CleanRing(ring, fmt.Sprintf("interior ring %d", i))
		if len(interior) >= minRingPoints {
			cleaned = append(cleaned, interior)
		} else {
			c.log.Warn("Dropped interior ring with too few valid points", map[string]interface{}{
				"ring":   i,
				"points": len(interior),
			})
		}
	}

	return geom.NewPolygon(p.Layout()).MustSetCoords(cleaned)
}

func (c *Cleaner) cleanMultiPolygon(mp *geom.MultiPolygon) geom.T {
	var parts [][][]geom.Coord
	for i := 0; i < mp.NumPolygons(); i++ {
		part := c.cleanPolygon(mp.Polygon(i))
		if part == nil {
			c.log.Warn("Dropped MultiPolygon part during cleaning", map[string]interface{}{
				"part": i,
			})
			continue
		}
		parts = append(parts, part.(*geom.Polygon).Coords())
	}

	if len(parts) == 0 {
		c.log.Warn("Entire MultiPolygon dropped: no valid parts remained", nil)
		return nil
	}

	return geom.NewMultiPolygon(mp.Layout()).MustSetCoords(parts)
}

// closeRing appends the first coordinate when the ring is open.
// Already-closed or too-short rings are returned as-is.
func closeRing(ring []geom.Coord) []geom.Coord {
	if len(ring) < 3 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] == last[0] && first[1] == last[1] {
		return ring
	}
	return append(ring, first)
}
