package sandbox

import "errors"

// The error taxonomy from spec §7: Configuration errors are reported
// before fork; Platform errors cross the error pipe from the child; MissingPath is the post-chroot existence check; Supervisor
// covers wait/unknown-status/watcher failures. Callers distinguish them
// with errors.Is against these sentinels.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrPlatform      = errors.New("platform error")
	ErrMissingPath   = errors.New("missing path error (perhaps you need to mount some directories)")
	ErrSupervisor    = errors.New("supervisor error")
	ErrInsecure      = errors.New("backend does not provide namespace and seccomp isolation")
)
