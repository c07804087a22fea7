package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/store"
)

// ErrUnrecognizedShape is returned when imported bytes match none of
// the known export document shapes.
var ErrUnrecognizedShape = errors.New("unrecognized import format")

// ErrEmptyImport is returned when a recognized shape resolves to an
// empty record list.
var ErrEmptyImport = errors.New("import contains no records")

// shapeDecoder attempts to extract the raw record array from one known
// historical export shape. Decoders are tried in a fixed priority
// order; the first match wins.
type shapeDecoder struct {
	name   string
	decode func([]byte) (json.RawMessage, bool)
}

var shapeDecoders = []shapeDecoder{
	{"bare record array", decodeBareArray},
	{"full cache document", decodeFullDocument},
	{"single-day bundle", decodeDayBundle},
	{"summary bundle", decodeSummaryBundle},
	{"record-bearing object", decodeGenericObject},
}

// Import sniffs the shape of exported bytes and returns the contained
// record list. It accepts, in priority order: a bare array of records,
// a full cache Document, a single-day bundle, a summary bundle, or any
// object exposing a models/records array. The extracted list passes
// the same per-record structural validation Load applies, but the
// Document version gate is deliberately not enforced here.
func Import(data []byte) ([]models.Record, error) {
	var raw json.RawMessage
	matched := ""
	for _, dec := range shapeDecoders {
		if extracted, ok := dec.decode(data); ok {
			raw = extracted
			matched = dec.name
			break
		}
	}
	if matched == "" {
		return nil, ErrUnrecognizedShape
	}

	if err := store.ValidateRecordList(raw); err != nil {
		return nil, fmt.Errorf("import (%s): %w", matched, err)
	}

	var records []models.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("import (%s): %w", matched, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w (%s)", ErrEmptyImport, matched)
	}
	return records, nil
}

// decodeBareArray matches a top-level JSON array. Array-ness is the
// cheapest test, so it runs before any object-shape probing.
func decodeBareArray(data []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var arr json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, false
	}
	return arr, true
}

// objectFields decodes the top level of an object without committing to
// any value types.
func objectFields(data []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// recordArray pulls an array value out of fields under the first of
// the given keys that holds one.
func recordArray(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if isArray(raw) {
			return raw, true
		}
	}
	return nil, false
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeFullDocument matches a complete cache Document: a record array
// plus a numeric timestamp. The version field is not checked; import is
// looser than Load by contract.
func decodeFullDocument(data []byte) (json.RawMessage, bool) {
	fields, ok := objectFields(data)
	if !ok {
		return nil, false
	}
	arr, ok := recordArray(fields, "records", "models")
	if !ok {
		return nil, false
	}
	tsRaw, ok := fields["timestamp"]
	if !ok {
		return nil, false
	}
	var ts float64
	if err := json.Unmarshal(tsRaw, &ts); err != nil {
		return nil, false
	}
	return arr, true
}

// decodeDayBundle matches a single-day export entry: a date string plus
// a record array.
func decodeDayBundle(data []byte) (json.RawMessage, bool) {
	fields, ok := objectFields(data)
	if !ok {
		return nil, false
	}
	dateRaw, ok := fields["date"]
	if !ok {
		return nil, false
	}
	var date string
	if err := json.Unmarshal(dateRaw, &date); err != nil {
		return nil, false
	}
	return recordArray(fields, "models", "records")
}

// decodeSummaryBundle matches the archive summary entry with its
// aggregated record list.
func decodeSummaryBundle(data []byte) (json.RawMessage, bool) {
	fields, ok := objectFields(data)
	if !ok {
		return nil, false
	}
	return recordArray(fields, "allModels", "allRecords")
}

// decodeGenericObject is the last-resort fallback: any object exposing
// a models/records array.
func decodeGenericObject(data []byte) (json.RawMessage, bool) {
	fields, ok := objectFields(data)
	if !ok {
		return nil, false
	}
	return recordArray(fields, "models", "records")
}
