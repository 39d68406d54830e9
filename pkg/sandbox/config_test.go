package sandbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidateRequiresAbsoluteExecutable(t *testing.T) {
	c := NewConfig("relative/path")
	err := c.Validate()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestConfigValidateRequiresAbsoluteWorkingDirectory(t *testing.T) {
	c := NewConfig("/bin/true", WithWorkingDirectory("rel"))
	assert.True(t, errors.Is(c.Validate(), ErrConfiguration))
}

func TestConfigValidateRejectsMountAtRoot(t *testing.T) {
	c := NewConfig("/bin/true", WithMount("/home/user", "/", true))
	assert.True(t, errors.Is(c.Validate(), ErrConfiguration))
}

func TestConfigValidateRejectsRelativeMountPaths(t *testing.T) {
	c := NewConfig("/bin/true", WithMount("rel", "/data", true))
	assert.True(t, errors.Is(c.Validate(), ErrConfiguration))
}

func TestConfigValidateAcceptsWellFormedConfig(t *testing.T) {
	c := NewConfig("/usr/bin/submission",
		WithArgs("a", "b"),
		WithWorkingDirectory("/"),
		WithMount("/usr", "/usr", false),
		WithMount("/tmp/work", "/work", true),
		WithMemoryLimit(256*1_000_000),
		WithTimeLimit(1),
	)
	assert.NoError(t, c.Validate())
}

func TestConfigDefaults(t *testing.T) {
	c := NewConfig("/bin/true")
	assert.Equal(t, "/", c.WorkingDirectory)
	assert.Equal(t, 0, c.UID)
	assert.Equal(t, 0, c.GID)
}

func TestDefaultSyscallFilterPresetBaseline(t *testing.T) {
	f := DefaultSyscallFilterPreset(false, false)
	assert.Equal(t, ActionAllow, f.DefaultAction.Kind())

	names := make(map[string]Action)
	for _, r := range f.Rules {
		names[r.Name] = r.Action
	}
	for _, n := range []string{"fork", "vfork", "clone", "chmod", "fchmod", "fchmodat"} {
		assert.Equal(t, ActionKill, names[n].Kind(), "expected %s to be killed", n)
	}
}

func TestDefaultSyscallFilterPresetAllowMultiprocess(t *testing.T) {
	f := DefaultSyscallFilterPreset(true, false)
	for _, r := range f.Rules {
		assert.NotEqual(t, "fork", r.Name)
		assert.NotEqual(t, "vfork", r.Name)
		assert.NotEqual(t, "clone", r.Name)
	}
}

func TestDefaultSyscallFilterPresetAllowChmod(t *testing.T) {
	f := DefaultSyscallFilterPreset(false, true)
	for _, r := range f.Rules {
		assert.NotEqual(t, "chmod", r.Name)
		assert.NotEqual(t, "fchmod", r.Name)
		assert.NotEqual(t, "fchmodat", r.Name)
	}
}
