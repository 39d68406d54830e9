//go:build linux

package seccomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSyscallKnownName(t *testing.T) {
	nr, ok := resolveSyscall("getuid")
	assert.True(t, ok)
	assert.NotZero(t, nr)
}

func TestResolveSyscallUnknownName(t *testing.T) {
	_, ok := resolveSyscall("not_a_real_syscall")
	assert.False(t, ok)
}

func TestFilterAddFailsClosedOnUnknownSyscall(t *testing.T) {
	f := New(Allow())
	err := f.Add("not_a_real_syscall", Kill())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown system call: not_a_real_syscall")
}

func TestFilterAddAcceptsKnownSyscall(t *testing.T) {
	f := New(Allow())
	require.NoError(t, f.Add("fork", Kill()))
	require.NoError(t, f.Add("clone", Kill()))
	assert.Len(t, f.program, 6) // two rules * 3 BPF instructions each
}

func TestActionSeccompReturnValues(t *testing.T) {
	assert.Equal(t, retAllow, Allow().seccompReturn())
	assert.Equal(t, retKillProcess, Kill().seccompReturn())
	assert.Equal(t, retErrno|uint32(13), Errno(13).seccompReturn())
}
