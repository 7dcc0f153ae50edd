package tileserver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/atlas/ingest/internal/config"
)

func testParams() Params {
	return NewParams(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5432",
		Name:     "parcel_data",
		User:     "tegola",
		Password: "secret",
		PoolMin:  1,
		PoolMax:  4,
	}, "parcels")
}

func TestWrite_RendersConnectionDetails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testParams()))
	out := buf.String()

	assert.Contains(t, out, `type = "mvt_postgis"`)
	assert.Contains(t, out, `host = "db.internal"`)
	assert.Contains(t, out, "port = 5432")
	assert.Contains(t, out, `database = "parcel_data"`)
	assert.Contains(t, out, `user = "tegola"`)
	assert.Contains(t, out, `password = "secret"`)
	assert.Contains(t, out, "max_connections = 4")
}

func TestWrite_QueriesTheParcelTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testParams()))
	out := buf.String()

	assert.Contains(t, out, "FROM parcels")
	assert.Contains(t, out, "WHERE has_spatial_data")
	assert.Contains(t, out, "ST_AsMVTGeom")
	assert.Contains(t, out, `provider_layer = "parcel_data.parcels"`)
}

func TestWrite_CustomTableName(t *testing.T) {
	p := testParams()
	p.Table = "parcels_staging"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	assert.True(t, strings.Contains(buf.String(), "FROM parcels_staging"))
}
