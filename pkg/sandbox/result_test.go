package sandbox

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitStatusJSONRoundTrip(t *testing.T) {
	cases := []ExitStatus{
		ExitCode(0),
		ExitCode(42),
		Signal(11),
		Killed(),
	}
	for _, want := range cases {
		data, err := json.Marshal(want)
		require.NoError(t, err)

		var got ExitStatus
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, want, got)
	}
}

func TestExitStatusJSONSchema(t *testing.T) {
	data, err := json.Marshal(ExitCode(7))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ExitCode":7}`, string(data))

	data, err = json.Marshal(Signal(11))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Signal":11}`, string(data))

	data, err = json.Marshal(Killed())
	require.NoError(t, err)
	assert.JSONEq(t, `"Killed"`, string(data))
}

func TestExitStatusSuccess(t *testing.T) {
	assert.True(t, ExitCode(0).Success())
	assert.False(t, ExitCode(1).Success())
	assert.False(t, Signal(0).Success())
	assert.False(t, Killed().Success())
}

func TestSandboxExecutionResultRoundTrip(t *testing.T) {
	want := SandboxExecutionResult{
		Status: Signal(9),
		ResourceUsage: ResourceUsage{
			MemoryUsage:   1048576,
			UserCPUTime:   0.5,
			SystemCPUTime: 0.1,
			WallTimeUsage: 1.2,
		},
	}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got SandboxExecutionResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, got)
}

func TestExitStatusUnmarshalRejectsUnknownLiteral(t *testing.T) {
	var s ExitStatus
	err := json.Unmarshal([]byte(`"Bogus"`), &s)
	assert.Error(t, err)
}

func TestExitStatusUnmarshalRejectsEmptyObject(t *testing.T) {
	var s ExitStatus
	err := json.Unmarshal([]byte(`{}`), &s)
	assert.Error(t, err)
}
