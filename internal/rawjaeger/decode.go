package rawjaeger

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode parses a Jaeger JSON dump from r. When strict is true the raw bytes
// are first validated against the bundled schema (see Validate); otherwise
// malformed documents are only caught by the subsequent json.Unmarshal.
// Field-level problems degrade rather than abort once decoded, but
// schema-level problems in non-strict mode still fail decode, since there
// is no well-formed partial dump to degrade into.
func Decode(r io.Reader, strict bool) (*Dump, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read jaeger dump: %w", err)
	}

	if strict {
		if err := Validate(raw); err != nil {
			return nil, err
		}
	}

	var dump Dump

	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("decode jaeger dump: %w", err)
	}

	return &dump, nil
}
