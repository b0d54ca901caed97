package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// document is the YAML layout of a taxonomy file.
type document struct {
	Roles          []Role   `yaml:"roles" validate:"required,min=1,dive"`
	SoftSkills     []string `yaml:"soft_skills" validate:"required,min=1"`
	Certifications []string `yaml:"certifications"`
}

var loadDefault = sync.OnceValues(func() (*Taxonomy, error) {
	return Parse(defaultTaxonomyYAML)
})

// Default returns the built-in taxonomy. It is parsed once per process.
func Default() (*Taxonomy, error) {
	return loadDefault()
}

// MustDefault returns the built-in taxonomy, panicking if it is invalid.
func MustDefault() *Taxonomy {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load built-in taxonomy: %v", err))
	}
	return t
}

// Load reads a taxonomy YAML file from disk.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates taxonomy YAML.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy YAML: %w", err)
	}

	if err := validator.New().Struct(doc); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	return New(doc.Roles, doc.SoftSkills, doc.Certifications)
}
