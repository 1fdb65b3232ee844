package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `validate:"required"`
	Types []string `validate:"required,min=1,max=2,dive,element"`
}

func TestElementTag(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(sample{Name: "a", Types: []string{"FIRE", "flying"}}))

	err := v.Struct(sample{Name: "a", Types: []string{"plasma"}})
	require.Error(t, err)
	details := Details(v.ValidationErrors(err))
	assert.Equal(t, "element", details["Types[0]"])
}

func TestCountTags(t *testing.T) {
	v := New()
	err := v.Struct(sample{Name: "a", Types: []string{"fire", "ice", "rock"}})
	require.Error(t, err)
	assert.Equal(t, "max", Details(v.ValidationErrors(err))["Types"])

	err = v.Struct(sample{Name: "a", Types: []string{}})
	require.Error(t, err)
	assert.Equal(t, "min", Details(v.ValidationErrors(err))["Types"])
}

func TestValidationErrorsNonValidation(t *testing.T) {
	v := New()
	assert.Nil(t, v.ValidationErrors(nil))
	assert.Nil(t, Details(nil))
}
