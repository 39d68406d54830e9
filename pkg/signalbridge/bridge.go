// Package signalbridge forwards the supervisor process's own SIGTERM
// and SIGINT to whatever sandboxed child it currently owns, so that
// killing isobox itself (e.g. a judge worker being torn down) doesn't
// leave an orphaned child running outside any supervision.
package signalbridge

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/talismancer/isobox/internal/log"
)

// noChild is the sentinel PID meaning "no child currently registered".
const noChild = -1

var childPID atomic.Int64

var registered atomic.Bool

// Register installs the SIGTERM/SIGINT handler once per process. It is
// idempotent: calling it from multiple Run invocations is safe.
func Register() {
	if !registered.CompareAndSwap(false, true) {
		return
	}
	childPID.Store(noChild)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for sig := range ch {
			pid := int(childPID.Load())
			if pid == noChild {
				continue
			}
			log.Warningf("signalbridge: forwarding %s as SIGKILL to pid %d", sig, pid)
			if err := syscall.Kill(pid, syscall.SIGKILL); err != nil {
				log.Errorf("signalbridge: kill pid %d: %v", pid, err)
			}
		}
	}()
}

// SetChild records the PID of the currently supervised child so a
// caught signal knows who to forward to.
func SetChild(pid int) {
	childPID.Store(int64(pid))
}

// ClearChild removes the current child registration, called once the
// supervisor has reaped it.
func ClearChild() {
	childPID.Store(noChild)
}
