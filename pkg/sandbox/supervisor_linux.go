//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/talismancer/isobox/internal/log"
	"github.com/talismancer/isobox/pkg/signalbridge"
)

func newPlatformSupervisor() Supervisor { return &linuxSupervisor{} }

// linuxSupervisor launches the sandboxed process inside fresh IPC, net,
// mount, pid, user and UTS namespaces via a single atomic clone — Go's
// os/exec plus syscall.SysProcAttr{Cloneflags, UidMappings,
// GidMappings} performs the same uid_map/gid_map/setgroups=deny ritual
// a hand-rolled clone(2) call would need, in one step.
type linuxSupervisor struct{}

func (linuxSupervisor) IsSecure() bool { return true }

// linuxHandle tracks one launched sandbox: the re-exec'd command, the
// wall-clock watcher, and the error pipe the child reports setup
// failures through.
type linuxHandle struct {
	cmd         *exec.Cmd
	killed      atomic.Bool
	errReader   *os.File
	startTime   time.Time
	stopWatch   chan struct{}
	cpuLock     *flock.Flock
	sandboxRoot string
}

func (linuxSupervisor) Run(c *Config) (Handle, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var cpuLock *flock.Flock
	if c.HasCPUCore {
		l, err := acquireCPUCoreLock(c.CPUCore)
		if err != nil {
			return nil, err
		}
		cpuLock = l
	}

	selfPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("%w: resolve own executable: %v", ErrSupervisor, err)
	}

	// The sandbox root is created here, before clone, so the supervisor
	// (not the child) owns its lifecycle and can remove it once the
	// child is reaped, per the "created at run() time, destroyed when
	// the handle is dropped" lifecycle.
	sandboxRoot, err := os.MkdirTemp("", "isobox-root-")
	if err != nil {
		if cpuLock != nil {
			cpuLock.Unlock()
		}
		return nil, fmt.Errorf("%w: create sandbox root: %v", ErrSupervisor, err)
	}
	sent := *c
	sent.sandboxRoot = sandboxRoot

	configR, configW, err := os.Pipe()
	if err != nil {
		os.RemoveAll(sandboxRoot)
		if cpuLock != nil {
			cpuLock.Unlock()
		}
		return nil, fmt.Errorf("%w: config pipe: %v", ErrSupervisor, err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		os.RemoveAll(sandboxRoot)
		if cpuLock != nil {
			cpuLock.Unlock()
		}
		return nil, fmt.Errorf("%w: error pipe: %v", ErrSupervisor, err)
	}

	cmd := exec.Command(selfPath, "boot-child")
	cmd.ExtraFiles = []*os.File{configR, errW}
	cmd.Env = []string{bootChildEnv + "=1"}

	// The target uid/gid is mapped to container id c.UID/c.GID (not
	// always 0), matching spec §4.2 step 1's "{target_uid} {parent_uid}
	// 1" mapping — the child lands inside the new user namespace already
	// running as c.UID/c.GID, which is what makes the setgid/setuid
	// calls in child_linux.go succeed instead of failing with EINVAL.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: syscall.CLONE_NEWIPC | syscall.CLONE_NEWNET | syscall.CLONE_NEWNS |
			syscall.CLONE_NEWPID | syscall.CLONE_NEWUSER | syscall.CLONE_NEWUTS,
		UidMappings:                []syscall.SysProcIDMap{{ContainerID: c.UID, HostID: os.Getuid(), Size: 1}},
		GidMappings:                []syscall.SysProcIDMap{{ContainerID: c.GID, HostID: os.Getgid(), Size: 1}},
		GidMappingsEnableSetgroups: false,
		Pdeathsig:                  syscall.SIGKILL,
	}

	signalbridge.Register()

	if err := cmd.Start(); err != nil {
		configR.Close()
		configW.Close()
		errR.Close()
		errW.Close()
		os.RemoveAll(sandboxRoot)
		if cpuLock != nil {
			cpuLock.Unlock()
		}
		return nil, fmt.Errorf("%w: start child: %v", ErrSupervisor, err)
	}
	configR.Close()
	errW.Close()
	signalbridge.SetChild(cmd.Process.Pid)

	if err := writeChildConfig(configW, &sent); err != nil {
		os.RemoveAll(sandboxRoot)
		if cpuLock != nil {
			cpuLock.Unlock()
		}
		return nil, fmt.Errorf("%w: send config to child: %v", ErrSupervisor, err)
	}

	h := &linuxHandle{
		cmd: cmd, errReader: errR, startTime: time.Now(),
		stopWatch: make(chan struct{}), cpuLock: cpuLock, sandboxRoot: sandboxRoot,
	}

	if c.WallTimeLimit > 0 {
		go h.watchWallClock(c.WallTimeLimit)
	}

	return h, nil
}

func (h *linuxHandle) watchWallClock(limitSeconds float64) {
	timer := time.NewTimer(time.Duration(limitSeconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-timer.C:
		h.killed.Store(true)
		log.Warningf("supervisor: wall time limit of %.3fs exceeded, killing pid %d", limitSeconds, h.cmd.Process.Pid)
		_ = h.cmd.Process.Kill()
	case <-h.stopWatch:
	}
}

func (h *linuxHandle) Wait() (*SandboxExecutionResult, error) {
	err := h.cmd.Wait()
	close(h.stopWatch)
	signalbridge.ClearChild()
	if h.cpuLock != nil {
		h.cpuLock.Unlock()
	}
	if h.sandboxRoot != "" {
		if rmErr := os.RemoveAll(h.sandboxRoot); rmErr != nil {
			log.Warningf("supervisor: remove sandbox root %s: %v", h.sandboxRoot, rmErr)
		}
	}

	if setupErr := readChildError(h.errReader); setupErr != "" {
		return nil, fmt.Errorf("%w: %s", ErrPlatform, setupErr)
	}

	var status ExitStatus
	switch {
	case h.killed.Load():
		status = Killed()
	default:
		if err == nil {
			status = ExitCode(0)
			break
		}
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("%w: wait: %v", ErrSupervisor, err)
		}
		ws, ok := exitErr.Sys().(syscall.WaitStatus)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected wait status type", ErrSupervisor)
		}
		switch {
		case ws.Exited():
			status = ExitCode(int32(ws.ExitStatus()))
		case ws.Signaled():
			status = Signal(int32(ws.Signal()))
		default:
			return nil, fmt.Errorf("%w: unknown process termination status", ErrSupervisor)
		}
	}

	usage := ResourceUsage{WallTimeUsage: time.Since(h.startTime).Seconds()}
	if ru, ok := h.cmd.ProcessState.SysUsage().(*syscall.Rusage); ok {
		usage.UserCPUTime = float64(ru.Utime.Sec) + float64(ru.Utime.Usec)/1e6
		usage.SystemCPUTime = float64(ru.Stime.Sec) + float64(ru.Stime.Usec)/1e6
		usage.MemoryUsage = uint64(ru.Maxrss) * 1024
	}

	return &SandboxExecutionResult{Status: status, ResourceUsage: usage}, nil
}
