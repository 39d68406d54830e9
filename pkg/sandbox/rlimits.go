package sandbox

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/talismancer/isobox/internal/log"
)

// applyResourceLimits sets RLIMIT_AS, RLIMIT_STACK, RLIMIT_CPU and
// RLIMIT_CORE for the calling process (must run inside the sandboxed
// child, after fork/clone, before execve). Every requested value is
// clamped to the resource's current hard limit rather than failing the
// setrlimit call outright — the same clamp-not-fail dance the teacher
// applies to RLIMIT_MEMLOCK, because a child inheriting a lower hard
// limit than the configuration expects should still run, just capped.
// secure distinguishes the namespaced Linux backend from the degraded
// one: RLIMIT_AS is skipped on the degraded backend, where it is flaky
// (address-space accounting there can include mappings the host
// toolchain or runtime needs, with no namespace isolating them).
func applyResourceLimits(c *Config, secure bool) error {
	if secure && c.MemoryLimit > 0 {
		if err := setClamped(unix.RLIMIT_AS, c.MemoryLimit); err != nil {
			return fmt.Errorf("%w: RLIMIT_AS: %v", ErrPlatform, err)
		}
	}
	if c.HasStackLimit {
		limit := c.StackLimit
		if limit == 0 {
			limit = unix.RLIM_INFINITY
		}
		if err := setClamped(unix.RLIMIT_STACK, limit); err != nil {
			return fmt.Errorf("%w: RLIMIT_STACK: %v", ErrPlatform, err)
		}
	} else if err := setClamped(unix.RLIMIT_STACK, unix.RLIM_INFINITY); err != nil {
		return fmt.Errorf("%w: RLIMIT_STACK: %v", ErrPlatform, err)
	}
	if c.TimeLimit > 0 {
		seconds := uint64(c.TimeLimit)
		if seconds == 0 {
			seconds = 1 // a sub-second CPU limit still needs a nonzero hard cap
		}
		if err := setClamped(unix.RLIMIT_CPU, seconds); err != nil {
			return fmt.Errorf("%w: RLIMIT_CPU: %v", ErrPlatform, err)
		}
	}
	if err := setClamped(unix.RLIMIT_CORE, 0); err != nil {
		return fmt.Errorf("%w: RLIMIT_CORE: %v", ErrPlatform, err)
	}
	return nil
}

// setClamped caps want at the resource's current hard limit, then sets
// both soft and hard to that clamped value.
func setClamped(resource int, want uint64) error {
	var cur unix.Rlimit
	if err := unix.Getrlimit(resource, &cur); err != nil {
		return err
	}
	val := want
	if cur.Max != unix.RLIM_INFINITY && val > cur.Max {
		log.Debugf("rlimits: clamping resource %d from %d to hard limit %d", resource, val, cur.Max)
		val = cur.Max
	}
	return unix.Setrlimit(resource, &unix.Rlimit{Cur: val, Max: val})
}
