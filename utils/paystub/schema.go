package paystub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Aashish23092/paystub-extraction/dto"
)

const numericValuePattern = `^-?\d+(\.\d+)?$`

var (
	flatSchemaOnce sync.Once
	flatSchema     *jsonschema.Schema
	flatSchemaErr  error
)

// FlatSchema describes a flat record: every vocabulary field required,
// numeric fields constrained to plain decimals, nothing else allowed.
func FlatSchema() map[string]any {
	props := make(map[string]any, len(fieldNames))
	for _, key := range fieldNames {
		if numericFields[key] {
			props[key] = map[string]any{"type": "string", "pattern": numericValuePattern}
		} else {
			props[key] = map[string]any{"type": "string"}
		}
	}
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           props,
		"required":             FieldNames(),
		"additionalProperties": false,
	}
}

func compiledFlatSchema() (*jsonschema.Schema, error) {
	flatSchemaOnce.Do(func() {
		b, err := json.Marshal(FlatSchema())
		if err != nil {
			flatSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("flat_record.json", bytes.NewReader(b)); err != nil {
			flatSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		flatSchema, flatSchemaErr = compiler.Compile("flat_record.json")
	})
	return flatSchema, flatSchemaErr
}

// ValidateFlat checks a flat record against FlatSchema.
func ValidateFlat(flat dto.FlatRecord) error {
	schema, err := compiledFlatSchema()
	if err != nil {
		return err
	}

	b, err := json.Marshal(flat)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("flat record does not match schema: %w", err)
	}
	return nil
}
