package source

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Feature is a single input parcel record before processing: its raw
// property map plus an optional geometry. Immutable once read.
type Feature struct {
	Properties map[string]interface{}
	Geometry   geom.T
}

// Reader loads county GeoJSON exports and hands back features in WGS84.
// A missing or unreadable file is the one error class that is fatal for the
// county's run.
type Reader struct {
	log *logger.Logger
}

// NewReader creates a new Reader instance.
func NewReader(log *logger.Logger) *Reader {
	return &Reader{log: log}
}

// ReadFile loads a GeoJSON feature collection from path. When the file
// declares a CRS other than EPSG:4326, every geometry is reprojected to
// WGS84 before the features are returned.
func (r *Reader) ReadFile(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse feature collection %s: %w", path, err)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		props := f.Properties
		if props == nil {
			props = map[string]interface{}{}
		}
		features = append(features, Feature{
			Properties: props,
			Geometry:   f.Geometry,
		})
	}

	crs := sniffCRS(data)
	if crs != "" {
		r.log.Info("Reprojecting source to WGS84", map[string]interface{}{
			"path": path,
			"crs":  crs,
		})
		if err := reproject(features, crs); err != nil {
			return nil, fmt.Errorf("failed to reproject %s from %s: %w", path, crs, err)
		}
	}

	r.log.Info("Loaded source features", map[string]interface{}{
		"path":     path,
		"features": len(features),
	})

	return features, nil
}

var epsgNameRe = regexp.MustCompile(`(?i)EPSG:+(\d+)$`)

// sniffCRS inspects the legacy GeoJSON crs member and returns a normalized
// "EPSG:n" string when the collection is not already in WGS84, or "" when no
// reprojection is needed.
func sniffCRS(data []byte) string {
	var envelope struct {
		CRS *struct {
			Type       string `json:"type"`
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.CRS == nil {
		return ""
	}

	name := envelope.CRS.Properties.Name
	// CRS84 is WGS84 with lon/lat axis order, the GeoJSON default.
	if name == "" || name == "urn:ogc:def:crs:OGC:1.3:CRS84" {
		return ""
	}

	m := epsgNameRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	if m[1] == "4326" {
		return ""
	}
	return "EPSG:" + m[1]
}
