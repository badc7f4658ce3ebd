package rawjaeger

import (
	"bytes"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// dumpSchema is a strict-mode JSON schema for the Jaeger dump envelope. It
// intentionally only constrains the fields required to be present and
// correctly typed; unknown fields are allowed since Jaeger's own schema
// keeps evolving.
const dumpSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["traceID", "spans", "processes"],
        "properties": {
          "traceID": {"type": "string"},
          "spans": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["traceID", "spanID", "operationName", "startTime", "duration", "processID"],
              "properties": {
                "traceID": {"type": "string"},
                "spanID": {"type": "string"},
                "operationName": {"type": "string"},
                "startTime": {"type": "integer"},
                "duration": {"type": "integer"},
                "processID": {"type": "string"}
              }
            }
          },
          "processes": {"type": "object"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(dumpSchema)

// Validate checks raw Jaeger dump JSON against the bundled strict schema,
// returning a combined error describing every violation found. Intended for
// the --strict ingest flag; non-strict ingest skips this and relies on
// Normalize's per-field degrade-don't-abort contract instead.
func Validate(raw []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate jaeger dump: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var buf bytes.Buffer

	for _, violation := range result.Errors() {
		fmt.Fprintf(&buf, "- %s\n", violation.String())
	}

	return fmt.Errorf("%w:\n%s", ErrSchemaViolation, buf.String())
}
