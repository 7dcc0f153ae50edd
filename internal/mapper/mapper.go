package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stwalsh4118/atlas/ingest/internal/models"
)

// Map extracts the fixed parcel attribute set from a raw feature property
// map. Missing keys default to the empty string (text) or nil (numerics);
// property keys beyond the recognized set are dropped here and never carried
// downstream. countyName is the fallback when the feature carries no county
// property of its own.
func Map(props map[string]interface{}, countyName string) *models.ParcelRecord {
	cleaned, _ := CleanValue(props).(map[string]interface{})
	if cleaned == nil {
		cleaned = map[string]interface{}{}
	}

	rec := &models.ParcelRecord{
		GlobalParcelUID:     asString(cleaned["global_parcel_uid"]),
		CountyParcelID:      asString(cleaned["county_parcel_id_num"]),
		OwnerName:           asString(cleaned["owner_name"]),
		PhysicalAddress:     asString(cleaned["physical_address"]),
		MailingAddress:      asString(cleaned["mailing_address"]),
		Acreage:             ParseNumeric(cleaned["acreage"]),
		PropertyValue:       ParseNumeric(cleaned["property_value"]),
		LandTypeDescription: asString(cleaned["land_type/description"]),
		DeedReference:       asString(cleaned["deed_reference"]),
		OwnerCity:           asString(cleaned["owner_city"]),
		OwnerState:          asString(cleaned["owner_state"]),
		OwnerZip:            asString(cleaned["owner_zip"]),
		PropertyDetailsLink: asString(cleaned["property_details_link"]),
		TaxDetailsLink:      asString(cleaned["tax_details_link"]),
		ClerkRecordsLink:    asString(cleaned["clerk_records_link"]),
		County:              asString(cleaned["county"]),
		State:               asString(cleaned["state"]),
	}

	// The source exports carry the situs address under physical_address;
	// the table keeps a copy in the legacy address column as well.
	rec.Address = rec.PhysicalAddress

	if rec.County == "" {
		rec.County = countyName
	}

	return rec
}

// CleanValue recursively replaces NaN floats and NaN-like strings ("nan",
// "null", "") with nil in any nested structure, so that no malformed token
// can reach a serializer downstream.
func CleanValue(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		return t
	case string:
		switch strings.ToLower(t) {
		case "nan", "null", "":
			return nil
		}
		return t
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = CleanValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = CleanValue(val)
		}
		return out
	default:
		return v
	}
}

// ParseNumeric parses a scalar permissively into a nullable float. Null,
// empty, the literal strings "null"/"nan", and anything that fails numeric
// parsing become an absent value, never an error.
func ParseNumeric(v interface{}) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return &t
	case int:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		if s == "" || s == "null" || s == "nan" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
