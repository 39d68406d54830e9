// Package cli is isobox's command-line entrypoint: flag parsing,
// subcommand dispatch and the human/JSON result rendering built on top
// of pkg/sandbox.
package cli

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/syndtr/gocapability/capability"

	"github.com/talismancer/isobox/internal/log"
)

var (
	debug = flag.Bool("debug", false, "enable debug logging")
)

// Main is isobox's entrypoint. It registers the user-facing run
// subcommand plus the hidden boot-child re-exec target, then dispatches
// to whichever one the invocation named.
func Main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(runCmd), "")
	subcommands.Register(new(bootChildCmd), "internal use only")

	flag.Parse()
	log.SetDebug(*debug)
	logCapabilities()

	os.Exit(int(subcommands.Execute(context.Background())))
}

// logCapabilities is a debug-only preflight: it reports whether the
// calling process holds CAP_SYS_ADMIN, which user namespace creation
// needs when isobox itself is not already running as root. It never
// blocks execution — the clone itself is the authoritative check —
// this only makes an eventual EPERM easier to diagnose.
func logCapabilities() {
	caps, err := capability.NewPid2(0)
	if err != nil {
		log.Debugf("capability preflight: %v", err)
		return
	}
	if err := caps.Load(); err != nil {
		log.Debugf("capability preflight: load: %v", err)
		return
	}
	log.Debugf("capability preflight: CAP_SYS_ADMIN=%v", caps.Get(capability.EFFECTIVE, capability.CAP_SYS_ADMIN))
}
