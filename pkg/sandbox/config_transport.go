package sandbox

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
)

// The supervisor and the re-exec'd child setup process are different
// OS processes (the whole point of the clone), so Config has to cross
// a pipe as data rather than living in shared memory. actionJSON and
// configJSON give Action and Config a stable wire shape despite their
// fields being unexported.
type actionJSON struct {
	Kind  actionKind `json:"kind"`
	Errno uint32     `json:"errno,omitempty"`
}

func (a Action) toJSON() actionJSON { return actionJSON{Kind: a.kind, Errno: a.errno} }
func (j actionJSON) toAction() Action {
	return Action{kind: j.Kind, errno: j.Errno}
}

type syscallFilterJSON struct {
	DefaultAction actionJSON `json:"default_action"`
	Rules         []struct {
		Name   string     `json:"name"`
		Action actionJSON `json:"action"`
	} `json:"rules"`
}

type configJSON struct {
	Executable       string     `json:"executable"`
	Args             []string   `json:"args"`
	Env              []EnvVar   `json:"env"`
	WorkingDirectory string     `json:"working_directory"`
	Stdin            string     `json:"stdin"`
	Stdout           string     `json:"stdout"`
	Stderr           string     `json:"stderr"`
	TimeLimit        float64    `json:"time_limit"`
	WallTimeLimit    float64    `json:"wall_time_limit"`
	MemoryLimit      uint64     `json:"memory_limit"`
	StackLimit       uint64     `json:"stack_limit"`
	HasStackLimit    bool       `json:"has_stack_limit"`
	MountPaths       []Mount    `json:"mount_paths"`
	MountTmpfs       bool       `json:"mount_tmpfs"`
	MountProc        bool       `json:"mount_proc"`
	SyscallFilter    *syscallFilterJSON `json:"syscall_filter,omitempty"`
	UID              int        `json:"uid"`
	GID              int        `json:"gid"`
	CPUCore          int        `json:"cpu_core"`
	HasCPUCore       bool       `json:"has_cpu_core"`
	SandboxRoot      string     `json:"sandbox_root"`
}

func (c *Config) toJSON() configJSON {
	j := configJSON{
		Executable: c.Executable, Args: c.Args, Env: c.Env,
		WorkingDirectory: c.WorkingDirectory,
		Stdin:            c.Stdin, Stdout: c.Stdout, Stderr: c.Stderr,
		TimeLimit: c.TimeLimit, WallTimeLimit: c.WallTimeLimit,
		MemoryLimit: c.MemoryLimit, StackLimit: c.StackLimit, HasStackLimit: c.HasStackLimit,
		MountPaths: c.MountPaths, MountTmpfs: c.MountTmpfs, MountProc: c.MountProc,
		UID: c.UID, GID: c.GID, CPUCore: c.CPUCore, HasCPUCore: c.HasCPUCore,
		SandboxRoot: c.sandboxRoot,
	}
	if c.SyscallFilter != nil {
		sf := &syscallFilterJSON{DefaultAction: c.SyscallFilter.DefaultAction.toJSON()}
		for _, r := range c.SyscallFilter.Rules {
			sf.Rules = append(sf.Rules, struct {
				Name   string     `json:"name"`
				Action actionJSON `json:"action"`
			}{Name: r.Name, Action: r.Action.toJSON()})
		}
		j.SyscallFilter = sf
	}
	return j
}

func (j configJSON) toConfig() *Config {
	c := &Config{
		Executable: j.Executable, Args: j.Args, Env: j.Env,
		WorkingDirectory: j.WorkingDirectory,
		Stdin:            j.Stdin, Stdout: j.Stdout, Stderr: j.Stderr,
		TimeLimit: j.TimeLimit, WallTimeLimit: j.WallTimeLimit,
		MemoryLimit: j.MemoryLimit, StackLimit: j.StackLimit, HasStackLimit: j.HasStackLimit,
		MountPaths: j.MountPaths, MountTmpfs: j.MountTmpfs, MountProc: j.MountProc,
		UID: j.UID, GID: j.GID, CPUCore: j.CPUCore, HasCPUCore: j.HasCPUCore,
		sandboxRoot: j.SandboxRoot,
	}
	if j.SyscallFilter != nil {
		sf := &SyscallFilter{DefaultAction: j.SyscallFilter.DefaultAction.toAction()}
		for _, r := range j.SyscallFilter.Rules {
			sf.Rules = append(sf.Rules, SyscallRule{Name: r.Name, Action: r.Action.toAction()})
		}
		c.SyscallFilter = sf
	}
	return c
}

// configEncoder writes a Config to the child config pipe as one JSON
// document.
type configEncoder struct{ w io.Writer }

func newConfigEncoder(w io.Writer) *configEncoder { return &configEncoder{w: w} }

func (e *configEncoder) Encode(c *Config) error {
	return json.NewEncoder(e.w).Encode(c.toJSON())
}

// DecodeConfig reads the JSON document written by configEncoder,
// called from the child setup process after it re-execs itself.
func DecodeConfig(r io.Reader) (*Config, error) {
	var j configJSON
	if err := json.NewDecoder(r).Decode(&j); err != nil {
		return nil, err
	}
	return j.toConfig(), nil
}

// writeChildConfig sends c down the config pipe to the re-exec'd
// boot-child process, used by both the Linux and degraded supervisors.
func writeChildConfig(w *os.File, c *Config) error {
	enc := newConfigEncoder(w)
	defer w.Close()
	return enc.Encode(c)
}

// readChildError drains the boot-child's error pipe: empty if setup
// succeeded (nothing is written, and the write end stays open in the
// exec'd program until it exits), or the single line the child wrote
// before reporting failure.
func readChildError(r *os.File) string {
	defer r.Close()
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}
