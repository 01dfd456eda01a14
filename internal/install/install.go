// Package install registers a deskview application with the desktop: an XDG
// desktop entry on Linux, an application bundle on macOS.
package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/icon"
)

var log = logging.Logger("deskview/install")

var iconCache = icon.DefaultCache

var ErrUnsupported = errors.New("install: desktop registration is not supported on " + runtime.GOOS)

// Target is what gets registered: the launcher binary and the descriptor it
// is started with.
type Target struct {
	Config     config.AppConfig
	Executable string
	Descriptor string
}

// NewTarget resolves the running executable and the descriptor path.
func NewTarget(cfg config.AppConfig, descriptor string) (Target, error) {
	exe, err := os.Executable()
	if err != nil {
		return Target{}, fmt.Errorf("install: locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	abs, err := filepath.Abs(descriptor)
	if err != nil {
		return Target{}, fmt.Errorf("install: %w", err)
	}
	return Target{Config: cfg, Executable: exe, Descriptor: abs}, nil
}

func (t Target) argv() []string {
	return []string{t.Executable, "-config", t.Descriptor}
}

// Register writes the desktop integration files and returns their paths.
func Register(t Target) ([]string, error) {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return registerXDG(dataHome(), t)
	case "darwin":
		dir, err := applicationsDir()
		if err != nil {
			return nil, err
		}
		return writeBundle(dir, t)
	default:
		return nil, ErrUnsupported
	}
}

// Unregister removes what Register wrote.
func Unregister(t Target) error {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return unregisterXDG(dataHome(), t)
	case "darwin":
		dir, err := applicationsDir()
		if err != nil {
			return err
		}
		return removeBundle(dir, t)
	default:
		return ErrUnsupported
	}
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".local", "share")
	}
	return filepath.Join(home, ".local", "share")
}

func applicationsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("install: %w", err)
	}
	return filepath.Join(home, "Applications"), nil
}
