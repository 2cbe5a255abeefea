// Package schema validates task queues against the published JSON schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

const schemaURL = "queue.schema.json"

//go:embed queue.schema.json
var queueSchema []byte

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(queueSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// Source returns the raw queue schema.
func Source() []byte {
	return queueSchema
}

// Validate checks a queue against the schema.
func Validate(q *roadmap.Queue) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal queue: %w", err)
	}
	return ValidateJSON(data)
}

// ValidateJSON checks serialized queue JSON against the schema. Violations
// are reported as SCHEMA_VIOLATION errors naming the first offending field.
func ValidateJSON(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return clierr.Newf(clierr.SchemaViolation, "queue is not valid JSON: %v", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("validate queue: %w", err)
		}
		leaf := firstLeaf(ve)
		return clierr.Newf(clierr.SchemaViolation, "queue violates schema at %s: %s", location(leaf), leaf.Message).
			WithDetails(map[string]any{"path": location(leaf), "reason": leaf.Message})
	}
	return nil
}

// firstLeaf returns the deepest first cause, which names the actual field.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func location(ve *jsonschema.ValidationError) string {
	if ve.InstanceLocation == "" {
		return "/"
	}
	return ve.InstanceLocation
}
