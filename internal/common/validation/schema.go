package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DecisionSchema builds the JSON schema a classifier reply must satisfy.
// The intent enum is the closed set of known intent ids.
func DecisionSchema(intents []string) map[string]interface{} {
	enum := make([]interface{}, len(intents))
	for i, id := range intents {
		enum[i] = id
	}
	optionalString := map[string]interface{}{"type": []interface{}{"string", "null"}}
	optionalID := map[string]interface{}{"type": []interface{}{"string", "number", "null"}}
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"intent"},
		"properties": map[string]interface{}{
			"intent":            map[string]interface{}{"type": "string", "enum": enum},
			"target_wallet":     optionalString,
			"target_collection": optionalID,
			"target_token":      optionalID,
			"reasoning":         optionalString,
			"response_focus":    optionalString,
			"needs_user_input":  map[string]interface{}{"type": []interface{}{"boolean", "null"}},
		},
	}
}

// Validator checks documents against one compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles schemaMap once.
func NewValidator(schemaMap map[string]interface{}) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate reports every schema violation in doc.
func (v *Validator) Validate(doc interface{}) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}
