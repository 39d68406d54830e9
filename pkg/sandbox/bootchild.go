package sandbox

// bootChildEnv marks the re-exec'd process as isobox's own child setup
// process, for diagnostics (ps/log output) that want to tell it apart
// from a normal invocation — dispatch itself happens via the
// "boot-child" subcommand name on argv, not this variable. Both the
// config pipe (fd 3) and error pipe (fd 4) are passed as inherited
// ExtraFiles at fixed descriptor numbers.
const bootChildEnv = "ISOBOX_BOOT_CHILD_CONFIG_FD"

const (
	bootChildConfigFD = 3
	bootChildErrFD    = 4
)

// BootChildConfigFD and BootChildErrFD expose the fixed descriptor
// numbers to internal/cli's boot-child subcommand, which runs in a
// different package from the supervisor that set the ExtraFiles up.
func BootChildConfigFD() int { return bootChildConfigFD }
func BootChildErrFD() int    { return bootChildErrFD }
