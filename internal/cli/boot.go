package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/talismancer/isobox/pkg/sandbox"
)

// bootChildCmd is the hidden re-exec target: isobox launches itself
// under the new namespaces (or, on the degraded backend, as a plain
// child) and dispatches here instead of the normal CLI, mirroring how
// runsc's own "boot" subcommand is never invoked directly by users —
// only by runsc itself, as the re-exec target of its own Create/Start.
type bootChildCmd struct{}

func (*bootChildCmd) Name() string     { return "boot-child" }
func (*bootChildCmd) Synopsis() string { return "internal use only: perform child setup and execve" }
func (*bootChildCmd) Usage() string    { return "boot-child (internal, never invoked directly)\n" }
func (*bootChildCmd) SetFlags(*flag.FlagSet) {}

func (*bootChildCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	configFile := os.NewFile(uintptr(sandbox.BootChildConfigFD()), "config")
	cfg, err := sandbox.DecodeConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "isobox boot-child: decode config: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := bootChild(cfg, sandbox.BootChildErrFD()); err != nil {
		// bootChild only returns on failure; it has already reported the
		// error across the error pipe to the supervisor.
		return subcommands.ExitFailure
	}
	panic("unreachable: bootChild returned nil without exec'ing")
}
