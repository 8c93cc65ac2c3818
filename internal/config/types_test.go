package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfig_YAMLMarshal(t *testing.T) {
	t.Parallel()

	got, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, `log_level: warn
jump_table: true
output:
    buffered: true
metrics:
    enabled: false
watch:
    debounce_ms: 100
`, string(got))
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	err := ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	assert.Equal(t, "validation error: log_level: must be one of debug, info, warn, error", err.Error())
	assert.False(t, IsValidationError(assert.AnError))
}
