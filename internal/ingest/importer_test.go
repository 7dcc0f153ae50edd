package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/atlas/ingest/internal/geometry"
	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/stwalsh4118/atlas/ingest/internal/source"
)

const importerFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "global_parcel_uid": "teton_county_wy_1",
        "owner_name": "SMITH",
        "acreage": "nan"
      },
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-110.8, 43.4], [-110.7, 43.4], [-110.7, 43.5], [-110.8, 43.5], [-110.8, 43.4]]]
      }
    },
    {
      "type": "Feature",
      "properties": {
        "global_parcel_uid": "teton_county_wy_2"
      },
      "geometry": null
    }
  ]
}`

func testImporter(t *testing.T, store *fakeStore) (*Importer, string) {
	t.Helper()
	log := logger.New("test")
	engine := NewEngine(store, geometry.NewEncoder(log), log, 100)

	dataDir := t.TempDir()
	return NewImporter(source.NewReader(log), engine, log, dataDir), dataDir
}

func writeFixture(t *testing.T, dataDir string, county source.County, content string) {
	t.Helper()
	path := county.GeoJSONPath(dataDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestImporter_ImportCounty(t *testing.T) {
	store := newFakeStore()
	importer, dataDir := testImporter(t, store)

	county, err := source.Lookup("teton_county_wy")
	require.NoError(t, err)
	writeFixture(t, dataDir, county, importerFixture)

	outcome, err := importer.ImportCounty(context.Background(), county)
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 1, outcome.SpatialWrites)
	assert.Equal(t, 1, outcome.NonSpatialWrites)

	rec := store.rows["teton_county_wy_1"]
	require.NotNil(t, rec)
	assert.Equal(t, "SMITH", rec.OwnerName)
	assert.Nil(t, rec.Acreage)
	assert.Equal(t, "teton_county_wy", rec.County)
	assert.Equal(t, "WY", rec.State)
	assert.True(t, rec.HasSpatialData)
}

func TestImporter_MissingFileFailsCounty(t *testing.T) {
	store := newFakeStore()
	importer, _ := testImporter(t, store)

	county, err := source.Lookup("lincoln_county_wy")
	require.NoError(t, err)

	_, err = importer.ImportCounty(context.Background(), county)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lincoln_county_wy")
	assert.Equal(t, 0, store.begins)
}

func TestImporter_ImportAllContinuesPastFailures(t *testing.T) {
	store := newFakeStore()
	importer, dataDir := testImporter(t, store)

	good, err := source.Lookup("teton_county_wy")
	require.NoError(t, err)
	writeFixture(t, dataDir, good, importerFixture)

	missing, err := source.Lookup("fremont_county_wy")
	require.NoError(t, err)

	outcomes, err := importer.ImportAll(context.Background(), []source.County{missing, good})
	require.NoError(t, err)

	require.Contains(t, outcomes, "teton_county_wy")
	assert.NotContains(t, outcomes, "fremont_county_wy")
	assert.Equal(t, 2, outcomes["teton_county_wy"].Succeeded)
}

func TestImporter_ImportAllFailsWhenEverythingFails(t *testing.T) {
	store := newFakeStore()
	importer, _ := testImporter(t, store)

	counties := source.Counties()
	_, err := importer.ImportAll(context.Background(), counties)
	require.Error(t, err)
}
