package tileserver

import (
	"fmt"
	"io"
	"text/template"

	"github.com/stwalsh4118/atlas/ingest/internal/config"
)

// Params feeds the tegola configuration template. The connection details come
// straight from the ingestion database config so the tile server reads the
// same table the importer writes.
type Params struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Table    string
	MaxConns int
}

// NewParams builds template parameters from the application configuration.
func NewParams(db config.DatabaseConfig, table string) Params {
	return Params{
		Host:     db.Host,
		Port:     db.Port,
		Name:     db.Name,
		User:     db.User,
		Password: db.Password,
		Table:    table,
		MaxConns: db.PoolMax,
	}
}

var configTemplate = template.Must(template.New("tegola").Parse(`[webserver]
port = ":8080"

[[providers]]
name = "parcel_data"
type = "mvt_postgis"
host = "{{.Host}}"
port = {{.Port}}
database = "{{.Name}}"
user = "{{.User}}"
password = "{{.Password}}"
max_connections = {{.MaxConns}}
srid = 3857

  [[providers.layers]]
  name = "parcels"
  geometry_fieldname = "geom"
  id_fieldname = "id"
  sql = """
    SELECT
      id,
      global_parcel_uid,
      county_parcel_id_num,
      owner_name,
      physical_address,
      acreage,
      county,
      state,
      ST_AsMVTGeom(ST_Transform(geometry, 3857), !BBOX!) AS geom
    FROM {{.Table}}
    WHERE has_spatial_data AND geometry && ST_Transform(!BBOX!, 4326)
  """

[[maps]]
name = "parcels"

  [[maps.layers]]
  provider_layer = "parcel_data.parcels"
  min_zoom = 8
  max_zoom = 20
`))

// Write renders the tegola configuration for the given parameters.
func Write(w io.Writer, p Params) error {
	if err := configTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render tile server config: %w", err)
	}
	return nil
}
