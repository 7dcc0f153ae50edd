package geometry

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geos"
)

// The validity checks and repair operations are delegated to GEOS; everything
// else in this package works on go-geom types. The two worlds exchange
// geometries as GeoJSON.

func toGEOS(g geom.T) (*geos.Geom, error) {
	data, err := geojson.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry as GeoJSON: %w", err)
	}
	gg, err := geos.NewGeomFromGeoJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse geometry into GEOS: %w", err)
	}
	return gg, nil
}

func fromGEOS(gg *geos.Geom) (geom.T, error) {
	var g geom.T
	if err := geojson.Unmarshal([]byte(gg.ToGeoJSON(-1)), &g); err != nil {
		return nil, fmt.Errorf("failed to decode geometry from GEOS: %w", err)
	}
	return g, nil
}

// IsValid reports whether the geometry satisfies the OGC validity rules.
func IsValid(g geom.T) bool {
	gg, err := toGEOS(g)
	if err != nil {
		return false
	}
	defer gg.Destroy()
	return gg.IsValid()
}

// IsEmpty reports whether the geometry has no coordinates at all.
func IsEmpty(g geom.T) bool {
	if gc, ok := g.(*geom.GeometryCollection); ok {
		return gc.NumGeoms() == 0
	}
	return len(g.FlatCoords()) == 0
}
