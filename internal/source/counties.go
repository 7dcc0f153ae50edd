package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// County identifies one supported county export.
type County struct {
	Name  string // registry key, e.g. "teton_county_wy"
	State string // two-letter state tag persisted with each record
}

// registry lists the counties with finalized ownership exports.
var registry = []County{
	{Name: "teton_county_wy", State: "WY"},
	{Name: "lincoln_county_wy", State: "WY"},
	{Name: "sublette_county_wy", State: "WY"},
	{Name: "teton_county_id", State: "ID"},
	{Name: "fremont_county_wy", State: "WY"},
}

// Counties returns all supported counties in registry order.
func Counties() []County {
	out := make([]County, len(registry))
	copy(out, registry)
	return out
}

// Lookup resolves a county by registry key.
func Lookup(name string) (County, error) {
	for _, c := range registry {
		if c.Name == name {
			return c, nil
		}
	}
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.Name
	}
	return County{}, fmt.Errorf("county %q not supported, available counties: %s",
		name, strings.Join(names, ", "))
}

// GeoJSONPath returns the location of the county's finalized ownership
// export under the data directory.
func (c County) GeoJSONPath(dataDir string) string {
	return filepath.Join(dataDir, c.Name+"_data_files", c.Name+"_final_ownership.geojson")
}
