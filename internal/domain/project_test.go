package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectValidate(t *testing.T) {
	p := &Project{Name: "Launch", StartDate: Date(2025, 1, 1)}
	assert.NoError(t, p.Validate())
}

func TestProjectValidate_MissingName(t *testing.T) {
	p := &Project{Name: "  ", StartDate: Date(2025, 1, 1)}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestProjectValidate_MissingStart(t *testing.T) {
	p := &Project{Name: "Launch"}
	assert.ErrorIs(t, p.Validate(), ErrValidation)
}

func TestDisplayID_Truncates(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000"}
	assert.Equal(t, "550e8400", p.DisplayID())
}

func TestDisplayID_Short(t *testing.T) {
	p := &Project{ID: "abc"}
	assert.Equal(t, "abc", p.DisplayID())
}
