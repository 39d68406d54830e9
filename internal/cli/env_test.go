package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvExplicitPair(t *testing.T) {
	name, value, err := parseEnv("PATH=/usr/bin")
	require.NoError(t, err)
	assert.Equal(t, "PATH", name)
	assert.Equal(t, "/usr/bin", value)
}

func TestParseEnvExplicitEmptyValue(t *testing.T) {
	name, value, err := parseEnv("FOO=")
	require.NoError(t, err)
	assert.Equal(t, "FOO", name)
	assert.Equal(t, "", value)
}

func TestParseEnvInheritsFromParent(t *testing.T) {
	t.Setenv("ISOBOX_TEST_VAR", "inherited-value")
	name, value, err := parseEnv("ISOBOX_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "ISOBOX_TEST_VAR", name)
	assert.Equal(t, "inherited-value", value)
}

func TestParseEnvMissingInheritedVarIsError(t *testing.T) {
	const name = "ISOBOX_TEST_VAR_DEFINITELY_UNSET"
	_, ok := os.LookupEnv(name)
	require.False(t, ok, "test precondition: var must not be set")

	_, _, err := parseEnv(name)
	assert.Error(t, err)
}
