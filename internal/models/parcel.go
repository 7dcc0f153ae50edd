package models

import (
	"time"
)

// ParcelRecord is the canonical output unit of the ingestion pipeline: one
// row in the parcels table, keyed by GlobalParcelUID across repeated runs.
// Text attributes default to the empty string the way the county exports do;
// numeric attributes use pointers to distinguish absent values from zero.
type ParcelRecord struct {
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Acreage             *float64
	PropertyValue       *float64
	GlobalParcelUID     string
	CountyParcelID      string
	OwnerName           string
	PhysicalAddress     string
	MailingAddress      string
	LandTypeDescription string
	DeedReference       string
	OwnerCity           string
	OwnerState          string
	OwnerZip            string
	PropertyDetailsLink string
	TaxDetailsLink      string
	ClerkRecordsLink    string
	Address             string
	County              string
	State               string
	// Geometry holds the little-endian 2-D WKB encoding of the parcel
	// boundary, or nil when the feature had no salvageable spatial data.
	// SRID 4326 is supplied at the SQL call site, not embedded here.
	Geometry       []byte
	HasSpatialData bool
}
