//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/talismancer/isobox/pkg/seccomp"
)

// RunChild performs every child-setup step (spec §4.2) and then
// execve's into the untrusted executable. It only returns when setup
// fails before execve — a successful call never returns, since execve
// replaces the calling process image. errFD is the write end of the
// supervisor's error pipe: the caller writes a descriptive message to
// it before returning, so the supervisor can report a precise failure
// even though (by the time it's watching) the child is no longer its
// direct stdout/stderr.
func RunChild(c *Config, errFD int) error {
	reportErr := func(stage string, err error) error {
		wrapped := fmt.Errorf("child setup (%s): %w", stage, err)
		if f := os.NewFile(uintptr(errFD), "errpipe"); f != nil {
			fmt.Fprintln(f, wrapped.Error())
			f.Close()
		}
		return wrapped
	}

	// Die if the supervisor dies first, rather than being re-parented
	// and orphaned inside the new pid namespace.
	if err := unix.Prctl(unix.PR_SET_PDEATHSIG, uintptr(unix.SIGKILL), 0, 0, 0); err != nil {
		return reportErr("pdeathsig", err)
	}

	if pid := os.Getpid(); pid != 1 {
		return reportErr("pid namespace", fmt.Errorf("%w: expected pid 1 inside the new pid namespace, running as pid %d", ErrPlatform, pid))
	}

	stdin, stdout, stderr, err := openStdio(c)
	if err != nil {
		return reportErr("stdio", err)
	}

	sandboxRoot := c.sandboxRoot
	if sandboxRoot == "" {
		return reportErr("sandbox root", fmt.Errorf("no sandbox root supplied by supervisor"))
	}
	if err := buildFilesystem(sandboxRoot, c); err != nil {
		return reportErr("filesystem", err)
	}

	if c.HasCPUCore {
		var set unix.CPUSet
		set.Zero()
		set.Set(c.CPUCore)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			return reportErr("cpu affinity", err)
		}
	}

	if err := unix.Chroot(sandboxRoot); err != nil {
		return reportErr("chroot", err)
	}
	if err := unix.Chdir(c.WorkingDirectory); err != nil {
		return reportErr("chdir to working directory", fmt.Errorf("%w: %v", ErrMissingPath, err))
	}
	if _, err := os.Stat(c.Executable); err != nil {
		return reportErr("locate executable", fmt.Errorf("%w: %s not found inside sandbox root (perhaps you need to mount some directories)", ErrMissingPath, c.Executable))
	}

	if err := applyResourceLimits(c, true); err != nil {
		return reportErr("resource limits", err)
	}

	if err := unix.Setgid(c.GID); err != nil {
		return reportErr("setgid", err)
	}
	if err := unix.Setuid(c.UID); err != nil {
		return reportErr("setuid", err)
	}

	// The seccomp filter binds only to the thread that loads it, so that
	// thread must also be the one that calls execve.
	runtime.LockOSThread()
	if c.SyscallFilter != nil {
		sf := seccomp.New(convertAction(c.SyscallFilter.DefaultAction))
		for _, rule := range c.SyscallFilter.Rules {
			if err := sf.Add(rule.Name, convertAction(rule.Action)); err != nil {
				return reportErr("syscall filter", err)
			}
		}
		if err := sf.Load(); err != nil {
			return reportErr("load syscall filter", err)
		}
	}

	env := make([]string, 0, len(c.Env))
	for _, e := range c.Env {
		env = append(env, e.Name+"="+e.Value)
	}

	unix.Dup2(int(stdin.Fd()), 0)
	unix.Dup2(int(stdout.Fd()), 1)
	unix.Dup2(int(stderr.Fd()), 2)

	argv := append([]string{filepath.Base(c.Executable)}, c.Args...)
	if err := unix.Exec(c.Executable, argv, env); err != nil {
		return reportErr("execve", fmt.Errorf("%w: %v", ErrPlatform, err))
	}
	panic("unreachable: unix.Exec returned without error")
}

func openStdio(c *Config) (stdin, stdout, stderr *os.File, err error) {
	open := func(path string, flags int, fallback *os.File) (*os.File, error) {
		if path == "" {
			return fallback, nil
		}
		return os.OpenFile(path, flags, 0644)
	}
	if stdin, err = open(c.Stdin, os.O_RDONLY, os.Stdin); err != nil {
		return nil, nil, nil, fmt.Errorf("open stdin: %w", err)
	}
	if stdout, err = open(c.Stdout, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.Stdout); err != nil {
		return nil, nil, nil, fmt.Errorf("open stdout: %w", err)
	}
	if stderr, err = open(c.Stderr, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.Stderr); err != nil {
		return nil, nil, nil, fmt.Errorf("open stderr: %w", err)
	}
	return stdin, stdout, stderr, nil
}

func convertAction(a Action) seccomp.Action {
	switch a.Kind() {
	case ActionAllow:
		return seccomp.Allow()
	case ActionKill:
		return seccomp.Kill()
	case ActionErrno:
		return seccomp.Errno(a.ErrnoValue())
	default:
		return seccomp.Kill()
	}
}
