package cli

import (
	"fmt"
	"os"
	"strings"
)

// parseEnv implements --env VAR[=VAL]: an explicit VAR=VAL sets that
// pair verbatim; a bare VAR inherits the value from the CLI process's
// own environment, and a bare VAR with no such inherited value is a
// configuration error (the child's environment is otherwise never
// inherited from the parent, so a missing inherited var would
// otherwise silently vanish).
func parseEnv(spec string) (name, value string, err error) {
	if idx := strings.IndexByte(spec, '='); idx >= 0 {
		return spec[:idx], spec[idx+1:], nil
	}
	v, ok := os.LookupEnv(spec)
	if !ok {
		return "", "", fmt.Errorf("--env %s: not set in the parent environment and no value given", spec)
	}
	return spec, v, nil
}
