package cli

import (
	"fmt"
	"strings"
)

// parseMount implements the --mount LOCAL[,SANDBOX[,rw|ro]] grammar
// from the CLI contract:
//
//	LOCAL              -> read-only bind at the same path
//	LOCAL,rw           -> read-write bind at the same path
//	LOCAL,SANDBOX      -> read-only bind at SANDBOX
//	LOCAL,SANDBOX,rw   -> explicit read-write rebind
//	LOCAL,SANDBOX,ro   -> explicit read-only rebind
func parseMount(spec string) (source, target string, writable bool, err error) {
	parts := strings.Split(spec, ",")
	switch len(parts) {
	case 1:
		return parts[0], parts[0], false, nil
	case 2:
		if parts[1] == "rw" {
			return parts[0], parts[0], true, nil
		}
		return parts[0], parts[1], false, nil
	case 3:
		switch parts[2] {
		case "rw":
			return parts[0], parts[1], true, nil
		case "ro":
			return parts[0], parts[1], false, nil
		default:
			return "", "", false, fmt.Errorf("invalid mount mode %q, want rw or ro", parts[2])
		}
	default:
		return "", "", false, fmt.Errorf("invalid --mount spec %q", spec)
	}
}
