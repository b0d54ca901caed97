// Package schemas validates serialized analysis results against the
// embedded JSON Schema that API clients rely on.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// AnalysisResultSchemaName names the embedded schema in errors.
const AnalysisResultSchemaName = "analysis_result.schema.json"

//go:embed analysis_result.schema.json
var analysisResultSchema string

// AnalysisResultSchema returns the raw schema document.
func AnalysisResultSchema() string {
	return analysisResultSchema
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(analysisResultSchema))
	if err != nil {
		return nil, &SchemaLoadError{Path: AnalysisResultSchemaName, Message: "invalid schema", Cause: err}
	}
	return schema, nil
})

// ValidateResultJSON validates a serialized AnalysisResult.
func ValidateResultJSON(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read analysis JSON: %w", err)
	}
	return toValidationError(result)
}

// ValidateResult serializes result and validates it.
func ValidateResult(result *types.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return ValidateResultJSON(data)
}

// ValidateResultFile validates a saved analysis. Files written by the API
// wrap the result as {"analysis": {...}}; both shapes are accepted.
func ValidateResultFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var envelope struct {
		Analysis json.RawMessage `json:"analysis"`
	}
	if json.Unmarshal(data, &envelope) == nil && len(envelope.Analysis) > 0 {
		data = envelope.Analysis
	}
	return ValidateResultJSON(data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
