//go:build linux

package cli

import "github.com/talismancer/isobox/pkg/sandbox"

func bootChild(cfg *sandbox.Config, errFD int) error {
	return sandbox.RunChild(cfg, errFD)
}
