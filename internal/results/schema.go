package results

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// ResultSchema describes the serialised ExtractionResult: every
// canonical field is null, a non-empty string of at most maxLen
// characters, or a non-empty list of such strings.
func ResultSchema(maxLen int) map[string]any {
	props := fieldProperties(maxLen)
	props[domain.KeyConfidence] = map[string]any{"type": "number", "minimum": 0, "maximum": 1}
	props[domain.KeyTimestamp] = map[string]any{"type": "string", "format": "date-time"}
	props[domain.KeySourceID] = map[string]any{"type": []any{"string", "null"}}
	props[domain.KeyStrategy] = map[string]any{"type": "string"}
	props[domain.KeySynonymConflicts] = map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	required := make([]any, 0, len(domain.AllFields())+2)
	for _, f := range domain.AllFields() {
		required = append(required, string(f))
	}
	required = append(required, domain.KeyConfidence, domain.KeyTimestamp)

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// FieldsSchema describes a loose field mapping as returned by an AI
// service: any subset of fields, each null, a string, a number or a list of
// strings. Unknown keys are allowed so label variants survive to the
// synonym merge.
func FieldsSchema() map[string]any {
	loose := map[string]any{
		"type":  []any{"string", "array", "null", "number"},
		"items": map[string]any{"type": "string"},
	}
	props := make(map[string]any, len(domain.AllFields()))
	for _, f := range domain.AllFields() {
		props[string(f)] = loose
	}
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": loose,
	}
}

func fieldProperties(maxLen int) map[string]any {
	text := map[string]any{"type": "string", "minLength": 1, "maxLength": maxLen}
	list := map[string]any{"type": "array", "items": text, "minItems": 1}

	props := make(map[string]any, len(domain.AllFields())+5)
	for _, f := range domain.AllFields() {
		props[string(f)] = map[string]any{
			"oneOf": []any{map[string]any{"type": "null"}, text, list},
		}
	}
	return props
}

// CompileSchema compiles a schema document held as a map.
func CompileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Validator checks JSON documents against a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the result schema for the given length bound.
func NewValidator(maxLen int) (*Validator, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	schema, err := CompileSchema("result.json", ResultSchema(maxLen))
	if err != nil {
		return nil, err
	}
	return &Validator{schema: schema}, nil
}

// NewFieldsValidator compiles the loose field-mapping schema.
func NewFieldsValidator() (*Validator, error) {
	schema, err := CompileSchema("fields.json", FieldsSchema())
	if err != nil {
		return nil, err
	}
	return &Validator{schema: schema}, nil
}

// Validate checks raw JSON. Violations wrap domain.ErrSchemaViolation.
func (v *Validator) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: unmarshal data: %w", domain.ErrSchemaViolation, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSchemaViolation, err)
	}
	return nil
}

// ValidateResult serialises r and validates it.
func (v *Validator) ValidateResult(r *domain.ExtractionResult) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return v.Validate(data)
}
