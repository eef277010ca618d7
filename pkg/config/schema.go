package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchemaJSON is the canonical JSON Schema for the hiergeom demo
// CLI's YAML/JSON config shape, grounded on the teacher's use of
// gojsonschema for UAST config validation (pkg/uast). Config files are
// YAML in practice but gojsonschema validates the JSON-equivalent
// document produced by viper's internal decoding, so this schema is
// expressed directly against the mapstructure tag names.
const configSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "layers": {
      "type": "object",
      "properties": {
        "scope": {"type": "integer", "minimum": 1},
        "intruder": {"type": "integer", "minimum": 1},
        "output": {"type": "integer", "minimum": 1}
      }
    },
    "processor": {
      "type": "object",
      "properties": {
        "workers": {"type": "integer", "minimum": 0}
      }
    },
    "telemetry": {
      "type": "object",
      "properties": {
        "service_name": {"type": "string"},
        "environment": {"type": "string"},
        "metrics_enabled": {"type": "boolean"},
        "metrics_address": {"type": "string"}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "format": {"type": "string", "enum": ["json", "text"]}
      }
    }
  }
}`

// ValidateSchema validates a raw JSON-encoded config document (as
// produced by marshaling a decoded YAML document to JSON) against the
// package's schema, returning every violation found rather than only the
// first.
func ValidateSchema(rawJSON []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchemaJSON)
	docLoader := gojsonschema.NewBytesLoader(rawJSON)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("config schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
}
