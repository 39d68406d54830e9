package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/talismancer/isobox/internal/log"
	"github.com/talismancer/isobox/pkg/sandbox"
)

// runCmd is the default, user-facing subcommand: build a
// sandbox.Config from flags, run it, wait, and report the result. It
// implements the whole of the CLI surface's flag table.
type runCmd struct {
	timeLimit     float64
	wallLimit     float64
	memoryLimitMB float64
	envSpecs      stringList
	mountSpecs    stringList
	workingDir    string
	stdin         string
	stdout        string
	stderr        string
	mountTmpfs    bool
	mountProc     bool
	allowMulti    bool
	allowChmod    bool
	uid           int
	gid           int
	cpuCore       int
	allowInsecure bool
	jsonOutput    bool
}

// stringList accumulates repeatable flag occurrences.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(([]string)(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run an untrusted executable inside the sandbox" }
func (*runCmd) Usage() string {
	return `run [flags] -- executable [args...]
  Launch executable inside an isolated sandbox and report its exit
  disposition and resource usage.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&r.timeLimit, "time-limit", 0, "CPU time limit in seconds")
	f.Float64Var(&r.timeLimit, "t", 0, "shorthand for --time-limit")
	f.Float64Var(&r.wallLimit, "wall-limit", 0, "wall-clock time limit in seconds")
	f.Float64Var(&r.memoryLimitMB, "memory-limit", 0, "address-space limit in MB (times 1,000,000 bytes)")
	f.Float64Var(&r.memoryLimitMB, "m", 0, "shorthand for --memory-limit")
	f.Var(&r.envSpecs, "env", "VAR[=VAL], repeatable; bare VAR inherits from the caller's environment")
	f.Var(&r.mountSpecs, "mount", "LOCAL[,SANDBOX[,rw|ro]], repeatable")
	f.StringVar(&r.workingDir, "working-directory", "/", "working directory inside the sandbox")
	f.StringVar(&r.stdin, "stdin", "", "host path to redirect stdin from")
	f.StringVar(&r.stdin, "i", "", "shorthand for --stdin")
	f.StringVar(&r.stdout, "stdout", "", "host path to redirect stdout to")
	f.StringVar(&r.stdout, "o", "", "shorthand for --stdout")
	f.StringVar(&r.stderr, "stderr", "", "host path to redirect stderr to")
	f.StringVar(&r.stderr, "e", "", "shorthand for --stderr")
	f.BoolVar(&r.mountTmpfs, "mount-tmpfs", false, "mount tmpfs at /tmp and /dev/shm")
	f.BoolVar(&r.mountProc, "mount-proc", false, "mount /proc")
	f.BoolVar(&r.allowMulti, "allow-multiprocess", false, "do not block fork/vfork/clone")
	f.BoolVar(&r.allowChmod, "allow-chmod", false, "do not block the chmod family")
	f.IntVar(&r.uid, "uid", 0, "in-sandbox numeric uid")
	f.IntVar(&r.gid, "gid", 0, "in-sandbox numeric gid")
	f.IntVar(&r.cpuCore, "cpu-core", -1, "pin the child to this CPU core")
	f.BoolVar(&r.allowInsecure, "allow-insecure", false, "proceed even if this platform's backend is not secure")
	f.BoolVar(&r.jsonOutput, "json", false, "emit the result as JSON")
	f.BoolVar(&r.jsonOutput, "j", false, "shorthand for --json")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() < 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	executable := f.Arg(0)
	args := f.Args()[1:]

	opts := []sandbox.Option{
		sandbox.WithArgs(args...),
		sandbox.WithWorkingDirectory(r.workingDir),
		sandbox.WithStdio(r.stdin, r.stdout, r.stderr),
		sandbox.WithUIDGID(r.uid, r.gid),
	}
	if r.timeLimit > 0 {
		opts = append(opts, sandbox.WithTimeLimit(r.timeLimit))
	}
	if r.wallLimit > 0 {
		opts = append(opts, sandbox.WithWallTimeLimit(r.wallLimit))
	}
	if r.memoryLimitMB > 0 {
		opts = append(opts, sandbox.WithMemoryLimit(uint64(r.memoryLimitMB*1_000_000)))
	}
	if r.mountTmpfs {
		opts = append(opts, sandbox.WithMountTmpfs())
	}
	if r.mountProc {
		opts = append(opts, sandbox.WithMountProc())
	}
	if r.cpuCore >= 0 {
		opts = append(opts, sandbox.WithCPUCore(r.cpuCore))
	}
	for _, spec := range r.envSpecs {
		name, value, err := parseEnv(spec)
		if err != nil {
			return failConfig(err)
		}
		opts = append(opts, sandbox.WithEnv(name, value))
	}
	for _, spec := range r.mountSpecs {
		source, target, writable, err := parseMount(spec)
		if err != nil {
			return failConfig(err)
		}
		opts = append(opts, sandbox.WithMount(source, target, writable))
	}
	preset := sandbox.DefaultSyscallFilterPreset(r.allowMulti, r.allowChmod)
	opts = append(opts, sandbox.WithSyscallFilter(preset))

	cfg := sandbox.NewConfig(executable, opts...)

	supervisor := sandbox.New()
	if !supervisor.IsSecure() && !r.allowInsecure {
		fmt.Fprintln(os.Stderr, "isobox: this platform's backend is not secure (no namespaces/seccomp); pass --allow-insecure to proceed anyway")
		return subcommands.ExitFailure
	}

	handle, err := supervisor.Run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "isobox: %v\n", err)
		return subcommands.ExitFailure
	}
	result, err := handle.Wait()
	if err != nil {
		fmt.Fprintf(os.Stderr, "isobox: %v\n", err)
		return subcommands.ExitFailure
	}

	if r.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "isobox: encode result: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		fmt.Printf("status: %s\n", result.Status)
		fmt.Printf("memory_usage: %d bytes\n", result.ResourceUsage.MemoryUsage)
		fmt.Printf("user_cpu_time: %.3fs\n", result.ResourceUsage.UserCPUTime)
		fmt.Printf("system_cpu_time: %.3fs\n", result.ResourceUsage.SystemCPUTime)
		fmt.Printf("wall_time_usage: %.3fs\n", result.ResourceUsage.WallTimeUsage)
	}
	return subcommands.ExitSuccess
}

func failConfig(err error) subcommands.ExitStatus {
	log.Errorf("configuration: %v", err)
	fmt.Fprintf(os.Stderr, "isobox: %v\n", err)
	return subcommands.ExitFailure
}
