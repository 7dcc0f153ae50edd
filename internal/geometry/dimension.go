package geometry

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// To2D strips the Z ordinate from a polygonal geometry, producing the 2-D
// equivalent. Already 2-D geometries are returned unchanged. A MultiPolygon
// part whose exterior falls below the minimum ring size after stripping is
// dropped; a Polygon with a degenerate exterior fails outright (nil).
// Non-polygonal types pass through a serialize/deserialize round-trip as a
// normalization step.
func To2D(g geom.T) geom.T {
	switch t := g.(type) {
	case *geom.Polygon:
		if t.Layout() == geom.XY {
			return t
		}
		rings := stripRings(t.Coords())
		if len(rings) == 0 || len(rings[0]) < minRingPoints {
			return nil
		}
		return geom.NewPolygon(geom.XY).MustSetCoords(rings)

	case *geom.MultiPolygon:
		if t.Layout() == geom.XY {
			return t
		}
		var parts [][][]geom.Coord
		for i := 0; i < t.NumPolygons(); i++ {
			rings := stripRings(t.Polygon(i).Coords())
			if len(rings) == 0 || len(rings[0]) < minRingPoints {
				continue
			}
			part := geom.NewPolygon(geom.XY).MustSetCoords(rings)
			if IsValid(part) {
				parts = append(parts, rings)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		return geom.NewMultiPolygon(geom.XY).MustSetCoords(parts)

	default:
		return roundTrip(g)
	}
}

// stripRings rebuilds every ring with only the first two ordinates per
// coordinate.
func stripRings(rings [][]geom.Coord) [][]geom.Coord {
	out := make([][]geom.Coord, 0, len(rings))
	for _, ring := range rings {
		stripped := make([]geom.Coord, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			stripped = append(stripped, geom.Coord{c[0], c[1]})
		}
		out = append(out, stripped)
	}
	return out
}

func roundTrip(g geom.T) geom.T {
	data, err := geojson.Marshal(g)
	if err != nil {
		return nil
	}
	var out geom.T
	if err := geojson.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
