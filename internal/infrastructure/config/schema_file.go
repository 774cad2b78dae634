package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/asakaida/permcsv/internal/entities"
)

// schemaFile is the YAML layout of a field schema:
//
//	fields:
//	  - person
//	  - view_grades
type schemaFile struct {
	Fields []string `yaml:"fields"`
}

// LoadFieldSchema reads the column list from a YAML file.
// An empty path yields the default grades/classes schema.
func LoadFieldSchema(fs afero.Fs, path string) (entities.FieldSchema, error) {
	if path == "" {
		return entities.DefaultFieldSchema(), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}

	schema := entities.FieldSchema(file.Fields)
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return schema, nil
}
