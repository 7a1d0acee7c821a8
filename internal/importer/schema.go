package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a project import file. The same
// field names are used for JSON and YAML.
type ImportSchema struct {
	Project      ProjectImport      `json:"project" yaml:"project"`
	Defaults     *DefaultsImport    `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Tasks        []TaskImport       `json:"tasks" yaml:"tasks"`
	Dependencies []DependencyImport `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Name      string `json:"name" yaml:"name"`
	StartDate string `json:"start_date" yaml:"start_date"`
}

// DefaultsImport defines project-wide defaults that cascade to tasks and
// dependencies.
type DefaultsImport struct {
	Priority       string `json:"priority,omitempty" yaml:"priority,omitempty"`
	DependencyType string `json:"dependency_type,omitempty" yaml:"dependency_type,omitempty"`
	LagDays        *int   `json:"lag_days,omitempty" yaml:"lag_days,omitempty"`
}

// TaskImport defines one task, milestone or container. Containers may omit
// their dates; they are derived from their children.
type TaskImport struct {
	Ref       string   `json:"ref" yaml:"ref"`
	ParentRef *string  `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Title     string   `json:"title" yaml:"title"`
	Kind      string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Start     string   `json:"start,omitempty" yaml:"start,omitempty"`
	End       string   `json:"end,omitempty" yaml:"end,omitempty"`
	Progress  *float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
	Status    string   `json:"status,omitempty" yaml:"status,omitempty"`
	Priority  string   `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// DependencyImport defines a typed edge between two task refs.
type DependencyImport struct {
	PredecessorRef string `json:"predecessor_ref" yaml:"predecessor_ref"`
	SuccessorRef   string `json:"successor_ref" yaml:"successor_ref"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty"`
	LagDays        *int   `json:"lag_days,omitempty" yaml:"lag_days,omitempty"`
}

// Format is an import file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension. Anything other
// than .yaml or .yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadImportSchema reads and parses a project import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, FormatForPath(path))
}

// ParseImportSchema decodes an import document.
func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}

// MarshalImportSchema encodes schema in the given format.
func MarshalImportSchema(schema *ImportSchema, format Format) ([]byte, error) {
	if format == FormatYAML {
		data, err := yaml.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteImportSchema writes schema to path, choosing the format from the
// extension.
func WriteImportSchema(path string, schema *ImportSchema) error {
	data, err := MarshalImportSchema(schema, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
