package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMountSingleToken(t *testing.T) {
	source, target, writable, err := parseMount("/usr/lib")
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib", source)
	assert.Equal(t, "/usr/lib", target)
	assert.False(t, writable)
}

func TestParseMountSamePathRW(t *testing.T) {
	source, target, writable, err := parseMount("/tmp/work,rw")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/work", source)
	assert.Equal(t, "/tmp/work", target)
	assert.True(t, writable)
}

func TestParseMountRebind(t *testing.T) {
	source, target, writable, err := parseMount("/usr/lib,/lib")
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib", source)
	assert.Equal(t, "/lib", target)
	assert.False(t, writable)
}

func TestParseMountExplicitMode(t *testing.T) {
	source, target, writable, err := parseMount("/data,/work,rw")
	require.NoError(t, err)
	assert.Equal(t, "/data", source)
	assert.Equal(t, "/work", target)
	assert.True(t, writable)

	_, _, writable, err = parseMount("/data,/work,ro")
	require.NoError(t, err)
	assert.False(t, writable)
}

func TestParseMountRejectsBadMode(t *testing.T) {
	_, _, _, err := parseMount("/data,/work,bogus")
	assert.Error(t, err)
}

func TestParseMountRejectsTooManyTokens(t *testing.T) {
	_, _, _, err := parseMount("/a,/b,rw,extra")
	assert.Error(t, err)
}
