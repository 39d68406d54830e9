//go:build linux

// Package seccomp builds and installs classic-BPF seccomp filters. It
// exists because no cgo libseccomp binding is available: the filter is
// assembled by hand from SockFilter/SockFprog instructions and loaded
// with prctl(PR_SET_SECCOMP, SECCOMP_MODE_FILTER, ...), the same shape
// runc's and sandkasten's seccomp installers use.
package seccomp

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Action mirrors the three dispositions pkg/sandbox.Action can take: let
// the syscall through, kill the process, or fail it with an errno.
type Action struct {
	kind  actionKind
	errno uint32
}

type actionKind int

const (
	ActionAllow actionKind = iota
	ActionKill
	ActionErrno
)

func Allow() Action          { return Action{kind: ActionAllow} }
func Kill() Action           { return Action{kind: ActionKill} }
func Errno(n uint32) Action  { return Action{kind: ActionErrno, errno: n} }

func (a Action) seccompReturn() uint32 {
	switch a.kind {
	case ActionAllow:
		return retAllow
	case ActionKill:
		return retKillProcess
	case ActionErrno:
		return retErrno | (a.errno & seccompRetDataMask)
	default:
		return retKillProcess
	}
}

// BPF opcode constants for the subset of classic BPF this package uses:
// load a word from the seccomp_data struct, compare-equal-jump, and
// return.
const (
	bpfLd  = 0x00
	bpfW   = 0x00
	bpfAbs = 0x20
	bpfJmp = 0x05
	bpfJeq = 0x10
	bpfK   = 0x00
	bpfRet = 0x06
)

// seccomp_data.nr is the first 4-byte field of the struct the kernel
// hands the filter for every syscall.
const seccompDataNrOffset = 0

const (
	retKillProcess     uint32 = 0x80000000
	retErrno           uint32 = 0x00050000
	retAllow           uint32 = 0x7fff0000
	seccompRetDataMask uint32 = 0x0000ffff
)

// sockFilter mirrors struct sock_filter.
type sockFilter struct {
	code uint16
	jt   uint8
	jf   uint8
	k    uint32
}

func stmt(code uint16, k uint32) sockFilter { return sockFilter{code: code, k: k} }
func jump(code uint16, k uint32, jt, jf uint8) sockFilter {
	return sockFilter{code: code, jt: jt, jf: jf, k: k}
}

// Filter is an ordered seccomp policy under construction: a default
// action plus per-syscall overrides, evaluated top to bottom the way
// Add appends them.
type Filter struct {
	defaultAction Action
	program       []sockFilter
}

// New starts a filter whose unmatched syscalls receive defaultAction.
func New(defaultAction Action) *Filter {
	return &Filter{defaultAction: defaultAction}
}

// Add appends a rule: when the running syscall is name, apply action
// instead of falling through to the default. Add fails closed — an
// unresolvable syscall name is a hard error, never a silent no-op,
// since a filter that can't express a requested rule must not load a
// weaker one in its place.
func (f *Filter) Add(name string, action Action) error {
	nr, ok := resolveSyscall(name)
	if !ok {
		return fmt.Errorf("unknown system call: %s", name)
	}
	f.program = append(f.program, ruleBlock(uint32(nr), action)...)
	return nil
}

// ruleBlock emits the load+compare+return triplet for one rule: load
// the syscall number, jump to the return on a match, fall through to
// the next rule's load otherwise. assemble fixes up the jf offsets
// once the full program is laid out.
func ruleBlock(nr uint32, action Action) []sockFilter {
	return []sockFilter{
		stmt(bpfLd|bpfW|bpfAbs, seccompDataNrOffset),
		jump(bpfJmp|bpfJeq|bpfK, nr, 0, 1),
		stmt(bpfRet|bpfK, action.seccompReturn()),
	}
}

// assemble lays out the full classic-BPF program: for every rule, a
// three-instruction load/compare/return block whose jt falls straight
// through to the return and whose jf skips it, landing one instruction
// later on the next rule's load (or, for the last rule, on the final
// unconditional return of the default action appended below).
func (f *Filter) assemble() []sockFilter {
	var prog []sockFilter
	for i := 0; i < len(f.program); i += 3 {
		load, jeq, ret := f.program[i], f.program[i+1], f.program[i+2]
		prog = append(prog,
			load,
			jump(jeq.code, jeq.k, 0, 1),
			ret,
		)
	}
	prog = append(prog, stmt(bpfRet|bpfK, f.defaultAction.seccompReturn()))
	return prog
}

// Load installs the assembled filter into the calling thread via
// prctl(PR_SET_SECCOMP), after first setting PR_SET_NO_NEW_PRIVS
// itself. The filter applies to the calling thread only, per seccomp(2).
func (f *Filter) Load() error {
	prog := f.assemble()
	fprog := struct {
		Len     uint16
		_       [6]byte
		Filter  uintptr
	}{
		Len:    uint16(len(prog)),
		Filter: uintptr(unsafe.Pointer(&prog[0])),
	}
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("seccomp: set no_new_privs: %w", err)
	}
	if _, _, errno := unix.Syscall(unix.SYS_PRCTL,
		uintptr(unix.PR_SET_SECCOMP),
		uintptr(unix.SECCOMP_MODE_FILTER),
		uintptr(unsafe.Pointer(&fprog)),
	); errno != 0 {
		return fmt.Errorf("seccomp: prctl(PR_SET_SECCOMP): %w", errno)
	}
	return nil
}
