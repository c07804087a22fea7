package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/pkg/version"
)

// ErrVersionMismatch marks a structurally sound Document whose version
// string differs from CacheVersion. Such documents are rejected whole,
// not migrated.
var ErrVersionMismatch = errors.New("cache version mismatch")

// recordSchemaJSON is the structural contract for one record: numeric
// id, string name, a creator with a username, and a versions array
// (either the canonical modelVersions key or the legacy versions key).
const recordSchemaJSON = `{
  "type": "object",
  "required": ["id", "name", "creator"],
  "properties": {
    "id": {"type": "number"},
    "name": {"type": "string"},
    "creator": {
      "type": "object",
      "required": ["username"],
      "properties": {"username": {"type": "string"}}
    },
    "modelVersions": {"type": "array"},
    "versions": {"type": "array"}
  },
  "anyOf": [
    {"required": ["modelVersions"]},
    {"required": ["versions"]}
  ]
}`

const documentSchemaJSON = `{
  "type": "object",
  "required": ["version", "timestamp", "records"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "timestamp": {"type": "number"},
    "records": {"type": "array", "items": ` + recordSchemaJSON + `},
    "dailyRecords": {"type": "array"}
  }
}`

const recordListSchemaJSON = `{"type": "array", "items": ` + recordSchemaJSON + `}`

var (
	documentSchema   = mustSchema(documentSchemaJSON)
	recordListSchema = mustSchema(recordListSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("store: bad schema: %v", err))
	}
	return schema
}

// decodeDocument validates raw against the Document schema and the
// version gate, returning the decoded Document. Any violation fails the
// whole Document; there is no partial record recovery.
func decodeDocument(raw []byte) (*models.Document, error) {
	if err := validateAgainst(documentSchema, raw); err != nil {
		return nil, err
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if doc.Version != CacheVersion {
		if version.NewerThan(doc.Version, CacheVersion) {
			return nil, fmt.Errorf("%w: document version %s was written by a newer release (supported: %s)",
				ErrVersionMismatch, doc.Version, CacheVersion)
		}
		return nil, fmt.Errorf("%w: want %s, got %s", ErrVersionMismatch, CacheVersion, doc.Version)
	}

	if doc.DailyRecords == nil {
		doc.DailyRecords = []models.DailyRecord{}
	}
	return &doc, nil
}

// ValidateRecordList checks a raw JSON array against the per-record
// structural contract. The importer runs extracted record lists through
// this, matching the structure checks Load applies.
func ValidateRecordList(raw []byte) error {
	return validateAgainst(recordListSchema, raw)
}

func validateAgainst(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("schema violation: %s", strings.Join(details, "; "))
}
