//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// acquireCPUCoreLock takes an advisory file lock for the requested CPU
// core so two concurrent sandboxes never pin to the same core, which
// would silently corrupt both runs' CPU-time measurements. Judges that
// run many sandboxes concurrently on a fixed core pool rely on this.
func acquireCPUCoreLock(core int) (*flock.Flock, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("isobox-cpu-core-%d.lock", core))
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: lock cpu core %d: %v", ErrSupervisor, core, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: cpu core %d is already in use by another sandbox", ErrSupervisor, core)
	}
	return lock, nil
}
