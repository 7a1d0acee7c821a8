package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDoc = `
project:
  name: Kitchen
  start_date: "2025-03-03"
defaults:
  dependency_type: FS
  lag_days: 1
tasks:
  - ref: demo
    title: Demolition
    start: "2025-03-03"
    end: "2025-03-05"
  - ref: fit
    title: Fit cabinets
    start: "2025-03-06"
    end: "2025-03-10"
    progress: 25
dependencies:
  - predecessor_ref: demo
    successor_ref: fit
`

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("plan.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("PLAN.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("plan.json"))
	assert.Equal(t, FormatJSON, FormatForPath("plan"))
}

func TestParseImportSchema_YAML(t *testing.T) {
	schema, err := ParseImportSchema([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "Kitchen", schema.Project.Name)
	require.NotNil(t, schema.Defaults)
	assert.Equal(t, 1, *schema.Defaults.LagDays)
	require.Len(t, schema.Tasks, 2)
	assert.Equal(t, 25.0, *schema.Tasks[1].Progress)
	require.Len(t, schema.Dependencies, 1)
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestParseImportSchema_JSON(t *testing.T) {
	doc := `{"project":{"name":"Kitchen","start_date":"2025-03-03"},
	"tasks":[{"ref":"a","title":"A","start":"2025-03-03","end":"2025-03-04"}]}`

	schema, err := ParseImportSchema([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "a", schema.Tasks[0].Ref)
	assert.Nil(t, schema.Defaults)
}

func TestParseImportSchema_Malformed(t *testing.T) {
	_, err := ParseImportSchema([]byte("{not json"), FormatJSON)
	assert.Error(t, err)

	_, err = ParseImportSchema([]byte("tasks: [unclosed"), FormatYAML)
	assert.Error(t, err)
}

func TestWriteAndLoadImportSchema(t *testing.T) {
	schema, err := ParseImportSchema([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteImportSchema(path, schema))

			loaded, err := LoadImportSchema(path)
			require.NoError(t, err)
			assert.Equal(t, schema, loaded)
		})
	}
}

func TestLoadImportSchema_MissingFile(t *testing.T) {
	_, err := LoadImportSchema(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
