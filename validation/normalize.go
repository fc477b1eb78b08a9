package validation

import (
	"time"

	"github.com/blueprintcu/modeler-backend/models"
)

// acceptedTimestampLayouts are the serializations seen in historical
// documents. Canonical output is RFC 3339 in UTC
var acceptedTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp converts a timestamp in any accepted serialization to the
// canonical RFC 3339 form. Unparseable input is returned unchanged; canonical
// input round-trips to itself, so the function is idempotent
func NormalizeTimestamp(value string) string {
	if value == "" {
		return value
	}
	for _, layout := range acceptedTimestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return value
}

// NormalizeDateFields canonicalizes the timestamp fields of an object and,
// recursively, of every field it carries. Idempotent on already-normalized
// input
func (s *Service) NormalizeDateFields(object models.CustomObject) models.CustomObject {
	object.CreatedAt = NormalizeTimestamp(object.CreatedAt)
	object.UpdatedAt = NormalizeTimestamp(object.UpdatedAt)

	fields := make([]models.Field, len(object.Fields))
	for i, f := range object.Fields {
		fields[i] = s.NormalizeFieldDates(f)
	}
	object.Fields = fields

	for i := range object.Associations {
		object.Associations[i].CreatedAt = NormalizeTimestamp(object.Associations[i].CreatedAt)
	}

	return object
}

// NormalizeFieldDates canonicalizes the timestamp fields of a single field
func (s *Service) NormalizeFieldDates(field models.Field) models.Field {
	field.CreatedAt = NormalizeTimestamp(field.CreatedAt)
	field.UpdatedAt = NormalizeTimestamp(field.UpdatedAt)
	return field
}

// Now returns the canonical serialization of the current time; create paths
// use it so fresh timestamps never need normalizing
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
