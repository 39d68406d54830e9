package sandbox

// Handle is an in-flight sandboxed execution returned by Run. Wait
// blocks until it finishes and reaps the result.
type Handle interface {
	// Wait blocks until the sandboxed process exits, is signaled, or is
	// killed by the supervisor, then returns its result.
	Wait() (*SandboxExecutionResult, error)
}

// Supervisor launches and supervises sandboxed executions. Two
// implementations exist: the Linux backend (supervisor_linux.go),
// which provides real namespace and seccomp isolation, and the
// degraded backend (supervisor_other.go) for non-Linux platforms,
// which enforces rlimits and a polled memory watchdog only.
type Supervisor interface {
	// Run validates config and starts the sandboxed process. It returns
	// once the process has been launched (or launching has definitively
	// failed); it does not wait for completion.
	Run(config *Config) (Handle, error)

	// IsSecure reports whether this backend provides real kernel-level
	// isolation (namespaces + seccomp) as opposed to the degraded
	// rlimits-only fallback.
	IsSecure() bool
}

// New returns the Supervisor implementation appropriate for the
// running platform: the namespace-and-seccomp backend under Linux, the
// rlimits-only degraded backend elsewhere.
func New() Supervisor {
	return newPlatformSupervisor()
}
