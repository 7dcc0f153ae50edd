package source

import (
	"fmt"

	"github.com/everystreet/go-proj/v8/proj"
	"github.com/twpayne/go-geom"
)

// reproject transforms every feature geometry from srcCRS to EPSG:4326 in
// place. One projection is constructed per collection and reused across all
// coordinates.
func reproject(features []Feature, srcCRS string) error {
	var transformErr error

	err := proj.CRSToCRS(srcCRS, "EPSG:4326", func(pj proj.Projection) {
		for _, f := range features {
			if f.Geometry == nil {
				continue
			}
			if transformErr = transformGeometry(pj, f.Geometry); transformErr != nil {
				return
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to build transformation %s -> EPSG:4326: %w", srcCRS, err)
	}
	return transformErr
}

func transformGeometry(pj proj.Projection, g geom.T) error {
	if gc, ok := g.(*geom.GeometryCollection); ok {
		for i := 0; i < gc.NumGeoms(); i++ {
			if err := transformGeometry(pj, gc.Geom(i)); err != nil {
				return err
			}
		}
		return nil
	}

	flat := g.FlatCoords()
	stride := g.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		coord := proj.XY{X: flat[i], Y: flat[i+1]}
		proj.TransformForward(pj, &coord)
		flat[i], flat[i+1] = coord.X, coord.Y
	}
	return nil
}
