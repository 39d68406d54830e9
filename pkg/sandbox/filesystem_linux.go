//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/talismancer/isobox/internal/log"
)

// buildFilesystem assembles the sandbox root at sandboxRoot: a fresh
// tmpfs, the minimal /dev nodes a judged process expects, optionally
// /tmp, /dev/shm and /proc, then the caller's bind mounts in the order
// given, and finally a read-only remount of the whole root. It must
// run after the mount namespace has been unshared (CLONE_NEWNS) and
// before chroot.
func buildFilesystem(sandboxRoot string, c *Config) error {
	if err := unix.Mount("tmpfs", sandboxRoot, "tmpfs", 0, "size=256M,mode=0755"); err != nil {
		return fmt.Errorf("%w: mount root tmpfs: %v", ErrPlatform, err)
	}

	if err := mountDev(sandboxRoot); err != nil {
		return err
	}

	if c.MountTmpfs {
		for _, dir := range []string{"tmp", "dev/shm"} {
			target := filepath.Join(sandboxRoot, dir)
			if err := os.MkdirAll(target, 0777); err != nil {
				return fmt.Errorf("%w: mkdir %s: %v", ErrPlatform, dir, err)
			}
			if err := unix.Mount("tmpfs", target, "tmpfs", 0, "size=256M,mode=1777"); err != nil {
				return fmt.Errorf("%w: mount %s tmpfs: %v", ErrPlatform, dir, err)
			}
		}
	}

	if c.MountProc {
		target := filepath.Join(sandboxRoot, "proc")
		if err := os.MkdirAll(target, 0555); err != nil {
			return fmt.Errorf("%w: mkdir proc: %v", ErrPlatform, err)
		}
		if err := unix.Mount("proc", target, "proc", 0, ""); err != nil {
			return fmt.Errorf("%w: mount proc: %v", ErrPlatform, err)
		}
	}

	for _, m := range c.MountPaths {
		if err := bindMount(sandboxRoot, m); err != nil {
			return err
		}
	}

	if err := unix.Mount("", sandboxRoot, "", unix.MS_REMOUNT|unix.MS_RDONLY|unix.MS_BIND, ""); err != nil {
		return fmt.Errorf("%w: remount root read-only: %v", ErrPlatform, err)
	}
	return nil
}

// mountDev populates sandboxRoot/dev with null, zero, random and
// urandom by creating empty regular files and bind-mounting the host
// device nodes onto them — mknod would require device-node creation
// privileges the sandboxed child's user namespace doesn't have.
func mountDev(sandboxRoot string) error {
	devDir := filepath.Join(sandboxRoot, "dev")
	if err := os.MkdirAll(devDir, 0755); err != nil {
		return fmt.Errorf("%w: mkdir dev: %v", ErrPlatform, err)
	}
	for _, name := range []string{"null", "zero", "random", "urandom"} {
		target := filepath.Join(devDir, name)
		f, err := os.OpenFile(target, os.O_CREATE|os.O_RDONLY, 0666)
		if err != nil {
			return fmt.Errorf("%w: create dev/%s placeholder: %v", ErrPlatform, name, err)
		}
		f.Close()
		source := filepath.Join("/dev", name)
		if err := unix.Mount(source, target, "", unix.MS_BIND, ""); err != nil {
			return fmt.Errorf("%w: bind mount dev/%s: %v", ErrPlatform, name, err)
		}
	}
	return nil
}

// bindMount performs one caller-requested bind mount, recursively
// (MS_BIND|MS_REC so nested mounts under Source come along), then
// remounts read-only in a second pass when the caller asked for a
// non-writable mount — MS_BIND mounts cannot set MS_RDONLY in a single
// call, hence the documented two-step dance.
func bindMount(sandboxRoot string, m Mount) error {
	target := filepath.Join(sandboxRoot, m.Target)
	if err := os.MkdirAll(target, 0755); err != nil {
		return fmt.Errorf("%w: mkdir mount target %s: %v", ErrPlatform, m.Target, err)
	}
	if err := unix.Mount(m.Source, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("%w: bind mount %s -> %s: %v", ErrPlatform, m.Source, m.Target, err)
	}
	if !m.Writable {
		flags := uintptr(unix.MS_REMOUNT | unix.MS_BIND | unix.MS_RDONLY | unix.MS_NOSUID | unix.MS_NODEV)
		if err := unix.Mount("", target, "", flags, ""); err != nil {
			return fmt.Errorf("%w: remount %s read-only: %v", ErrPlatform, m.Target, err)
		}
	}
	log.Debugf("filesystem: mounted %s -> %s (writable=%v)", m.Source, m.Target, m.Writable)
	return nil
}
