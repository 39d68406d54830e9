package sandbox

import (
	"fmt"
	"path/filepath"
)

// Action is the tagged value a SyscallFilter applies to a given syscall
// or to every unmatched syscall (the default action).
type Action struct {
	kind  actionKind
	errno uint32
}

type actionKind int

const (
	ActionAllow actionKind = iota
	ActionKill
	ActionErrno
)

// Allow lets the syscall through.
func Allow() Action { return Action{kind: ActionAllow} }

// Kill terminates the process with SIGSYS on the matching syscall.
func Kill() Action { return Action{kind: ActionKill} }

// Errno makes the matching syscall fail with the given errno instead of
// executing.
func Errno(n uint32) Action { return Action{kind: ActionErrno, errno: n} }

// Kind reports which of Allow/Kill/Errno this action is.
func (a Action) Kind() actionKind { return a.kind }

// ErrnoValue is only meaningful when Kind() == ActionErrno.
func (a Action) ErrnoValue() uint32 { return a.errno }

func (a Action) String() string {
	switch a.kind {
	case ActionAllow:
		return "allow"
	case ActionKill:
		return "kill"
	case ActionErrno:
		return fmt.Sprintf("errno(%d)", a.errno)
	default:
		return "unknown"
	}
}

// SyscallRule pairs a syscall name with the action to take on it. Rules
// are evaluated in declared order by the seccomp filter.
type SyscallRule struct {
	Name   string
	Action Action
}

// SyscallFilter is the policy description handed to pkg/seccomp: a
// default action plus an ordered list of per-syscall overrides.
type SyscallFilter struct {
	DefaultAction Action
	Rules         []SyscallRule
}

// DefaultSyscallFilterPreset builds the two-knob preset described in
// spec §3: default Allow, with Kill rules added for the fork/clone
// family and/or the chmod family depending on what the caller permits.
func DefaultSyscallFilterPreset(allowMultiprocess, allowChmod bool) SyscallFilter {
	f := SyscallFilter{DefaultAction: Allow()}
	if !allowMultiprocess {
		for _, name := range []string{"fork", "vfork", "clone"} {
			f.Rules = append(f.Rules, SyscallRule{Name: name, Action: Kill()})
		}
	}
	if !allowChmod {
		for _, name := range []string{"chmod", "fchmod", "fchmodat"} {
			f.Rules = append(f.Rules, SyscallRule{Name: name, Action: Kill()})
		}
	}
	return f
}

// Mount describes one bind mount into the sandbox root.
type Mount struct {
	Source   string // absolute host path
	Target   string // absolute in-sandbox path, must not be "/"
	Writable bool
}

// EnvVar is one entry of the child's environment.
type EnvVar struct {
	Name  string
	Value string
}

// Config is the typed, validated container for every sandbox knob (spec
// §3 SandboxConfiguration). It is treated as read-only from Run() onward.
type Config struct {
	Executable string
	Args       []string
	Env        []EnvVar

	WorkingDirectory string // default "/"

	Stdin  string
	Stdout string
	Stderr string

	TimeLimit     float64 // CPU seconds, 0 = unset
	WallTimeLimit float64 // seconds, 0 = unset
	MemoryLimit   uint64  // bytes, 0 = unset
	StackLimit    uint64  // bytes, 0 = unset (means: set to infinity)
	HasStackLimit bool

	MountPaths []Mount
	MountTmpfs bool
	MountProc  bool

	SyscallFilter *SyscallFilter

	UID int
	GID int

	CPUCore    int
	HasCPUCore bool

	// sandboxRoot is the host-side temporary directory the supervisor
	// creates before clone and the child chroots into. It crosses the
	// config pipe like everything else here, but is never caller-settable
	// — Run fills it in, not an Option.
	sandboxRoot string
}

// Option mutates a Config during construction. Modeled on the original
// Rust implementation's SandboxConfigurationBuilder.
type Option func(*Config)

// NewConfig builds a Config with the spec's defaults (working directory
// "/", uid/gid 0) and applies the given options in order.
func NewConfig(executable string, opts ...Option) *Config {
	c := &Config{
		Executable:       executable,
		WorkingDirectory: "/",
		UID:              0,
		GID:              0,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithArgs(args ...string) Option {
	return func(c *Config) { c.Args = append(c.Args, args...) }
}

func WithEnv(name, value string) Option {
	return func(c *Config) { c.Env = append(c.Env, EnvVar{Name: name, Value: value}) }
}

func WithWorkingDirectory(dir string) Option {
	return func(c *Config) { c.WorkingDirectory = dir }
}

func WithStdio(stdin, stdout, stderr string) Option {
	return func(c *Config) {
		c.Stdin, c.Stdout, c.Stderr = stdin, stdout, stderr
	}
}

func WithTimeLimit(seconds float64) Option {
	return func(c *Config) { c.TimeLimit = seconds }
}

func WithWallTimeLimit(seconds float64) Option {
	return func(c *Config) { c.WallTimeLimit = seconds }
}

func WithMemoryLimit(bytes uint64) Option {
	return func(c *Config) { c.MemoryLimit = bytes }
}

func WithStackLimit(bytes uint64) Option {
	return func(c *Config) { c.StackLimit, c.HasStackLimit = bytes, true }
}

func WithMount(source, target string, writable bool) Option {
	return func(c *Config) {
		c.MountPaths = append(c.MountPaths, Mount{Source: source, Target: target, Writable: writable})
	}
}

func WithMountTmpfs() Option {
	return func(c *Config) { c.MountTmpfs = true }
}

func WithMountProc() Option {
	return func(c *Config) { c.MountProc = true }
}

func WithSyscallFilter(f SyscallFilter) Option {
	return func(c *Config) { c.SyscallFilter = &f }
}

func WithUIDGID(uid, gid int) Option {
	return func(c *Config) { c.UID, c.GID = uid, gid }
}

func WithCPUCore(core int) Option {
	return func(c *Config) { c.CPUCore, c.HasCPUCore = core, true }
}

// Validate checks the invariants spec §3/§7 require before any fork:
// absolute executable path, non-root mount targets, absolute mount
// paths, absolute working directory.
func (c *Config) Validate() error {
	if c.Executable == "" || !filepath.IsAbs(c.Executable) {
		return fmt.Errorf("%w: executable must be an absolute path, got %q", ErrConfiguration, c.Executable)
	}
	if !filepath.IsAbs(c.WorkingDirectory) {
		return fmt.Errorf("%w: working_directory must be an absolute path, got %q", ErrConfiguration, c.WorkingDirectory)
	}
	for _, m := range c.MountPaths {
		if !filepath.IsAbs(m.Source) {
			return fmt.Errorf("%w: mount source must be an absolute path, got %q", ErrConfiguration, m.Source)
		}
		if !filepath.IsAbs(m.Target) {
			return fmt.Errorf("%w: mount target must be an absolute path, got %q", ErrConfiguration, m.Target)
		}
		if m.Target == "/" {
			return fmt.Errorf("%w: mount target must not be \"/\"", ErrConfiguration)
		}
	}
	if c.SyscallFilter != nil {
		for _, r := range c.SyscallFilter.Rules {
			if r.Name == "" {
				return fmt.Errorf("%w: syscall filter rule has empty syscall name", ErrConfiguration)
			}
		}
	}
	return nil
}
