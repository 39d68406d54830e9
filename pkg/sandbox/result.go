package sandbox

import (
	"encoding/json"
	"fmt"
)

// ExitStatus is the sum type from spec §3: exactly one of a kernel exit
// code, a kernel-delivered signal, or Killed (supervisor-forced
// termination). Killed takes precedence when both apply (§5, "Killed
// supremacy").
type ExitStatus struct {
	kind   exitKind
	code   int32
	signal int32
}

type exitKind int

const (
	exitKindCode exitKind = iota
	exitKindSignal
	exitKindKilled
)

func ExitCode(code int32) ExitStatus   { return ExitStatus{kind: exitKindCode, code: code} }
func Signal(signum int32) ExitStatus   { return ExitStatus{kind: exitKindSignal, signal: signum} }
func Killed() ExitStatus               { return ExitStatus{kind: exitKindKilled} }

// IsExitCode reports whether the status is ExitCode, returning the code.
func (s ExitStatus) IsExitCode() (int32, bool) {
	return s.code, s.kind == exitKindCode
}

// IsSignal reports whether the status is Signal, returning the signal number.
func (s ExitStatus) IsSignal() (int32, bool) {
	return s.signal, s.kind == exitKindSignal
}

// IsKilled reports whether the status is Killed.
func (s ExitStatus) IsKilled() bool { return s.kind == exitKindKilled }

// Success is true only for ExitCode(0).
func (s ExitStatus) Success() bool { return s.kind == exitKindCode && s.code == 0 }

func (s ExitStatus) String() string {
	switch s.kind {
	case exitKindCode:
		return fmt.Sprintf("ExitCode(%d)", s.code)
	case exitKindSignal:
		return fmt.Sprintf("Signal(%d)", s.signal)
	case exitKindKilled:
		return "Killed"
	default:
		return "Unknown"
	}
}

// statusJSON mirrors the exact schema of spec §6:
//
//	{"ExitCode":N} | {"Signal":N} | "Killed"
type statusJSON struct {
	ExitCode *int32 `json:"ExitCode,omitempty"`
	Signal   *int32 `json:"Signal,omitempty"`
}

func (s ExitStatus) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case exitKindCode:
		c := s.code
		return json.Marshal(statusJSON{ExitCode: &c})
	case exitKindSignal:
		sig := s.signal
		return json.Marshal(statusJSON{Signal: &sig})
	case exitKindKilled:
		return json.Marshal("Killed")
	default:
		return nil, fmt.Errorf("marshal ExitStatus: unknown kind %d", s.kind)
	}
}

func (s *ExitStatus) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		if literal != "Killed" {
			return fmt.Errorf("unmarshal ExitStatus: unexpected literal %q", literal)
		}
		*s = Killed()
		return nil
	}
	var obj statusJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal ExitStatus: %w", err)
	}
	switch {
	case obj.ExitCode != nil:
		*s = ExitCode(*obj.ExitCode)
	case obj.Signal != nil:
		*s = Signal(*obj.Signal)
	default:
		return fmt.Errorf("unmarshal ExitStatus: neither ExitCode nor Signal present")
	}
	return nil
}

// ResourceUsage is spec §3's ResourceUsage record.
type ResourceUsage struct {
	MemoryUsage    uint64  `json:"memory_usage"`
	UserCPUTime    float64 `json:"user_cpu_time"`
	SystemCPUTime  float64 `json:"system_cpu_time"`
	WallTimeUsage  float64 `json:"wall_time_usage"`
}

// SandboxExecutionResult is the system's sole output record (spec §3/§6).
type SandboxExecutionResult struct {
	Status        ExitStatus    `json:"status"`
	ResourceUsage ResourceUsage `json:"resource_usage"`
}
