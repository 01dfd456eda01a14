package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/petervdpas/deskview/internal/icon"
	"github.com/petervdpas/deskview/internal/util"
)

// Application bundle layout:
//
//	<Name>.app/Contents/Info.plist
//	<Name>.app/Contents/MacOS/launcher
//	<Name>.app/Contents/Resources/AppIcon.icns
const (
	bundleLauncher = "launcher"
	bundleIcon     = "AppIcon"
)

type infoPlist struct {
	Name               string `plist:"CFBundleName"`
	DisplayName        string `plist:"CFBundleDisplayName"`
	Identifier         string `plist:"CFBundleIdentifier"`
	Executable         string `plist:"CFBundleExecutable"`
	PackageType        string `plist:"CFBundlePackageType"`
	ShortVersionString string `plist:"CFBundleShortVersionString"`
	Version            string `plist:"CFBundleVersion"`
	IconFile           string `plist:"CFBundleIconFile,omitempty"`
	HighResolution     bool   `plist:"NSHighResolutionCapable"`
	Copyright          string `plist:"NSHumanReadableCopyright,omitempty"`
}

func bundlePath(dir, name string) string {
	return filepath.Join(dir, name+".app")
}

func launcherScript(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return "#!/bin/sh\nexec " + strings.Join(quoted, " ") + ` "$@"` + "\n"
}

func writeBundle(dir string, t Target) ([]string, error) {
	cfg := t.Config
	root := bundlePath(dir, cfg.Name())
	contents := filepath.Join(root, "Contents")

	info := infoPlist{
		Name:               cfg.Name(),
		DisplayName:        cfg.Name(),
		Identifier:         cfg.BundleID(),
		Executable:         bundleLauncher,
		PackageType:        "APPL",
		ShortVersionString: cfg.Version(),
		Version:            cfg.Version(),
		HighResolution:     true,
	}
	if cfg.Vendor() != "" {
		info.Copyright = cfg.Vendor()
	}

	var written []string
	if icon.IsFile(cfg.Icon()) {
		data, err := encodeICNS(func(size int) ([]byte, error) {
			return iconCache().Export(cfg.Icon(), size)
		})
		if err != nil {
			return nil, err
		}
		p := filepath.Join(contents, "Resources", bundleIcon+".icns")
		if err := util.WriteFile(p, data); err != nil {
			return nil, err
		}
		info.IconFile = bundleIcon
		written = append(written, p)
	}

	launcher := filepath.Join(contents, "MacOS", bundleLauncher)
	if err := util.WriteFile(launcher, []byte(launcherScript(t.argv()))); err != nil {
		return nil, err
	}
	if err := os.Chmod(launcher, 0o755); err != nil {
		return nil, err
	}
	written = append(written, launcher)

	data, err := plist.MarshalIndent(info, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("install: Info.plist: %w", err)
	}
	p := filepath.Join(contents, "Info.plist")
	if err := util.WriteFile(p, data); err != nil {
		return nil, err
	}
	written = append(written, p)

	log.Infow("registered", "bundle", root, "bundle_id", cfg.BundleID())
	return written, nil
}

func readInfoPlist(root string) (infoPlist, error) {
	var info infoPlist
	data, err := os.ReadFile(filepath.Join(root, "Contents", "Info.plist"))
	if err != nil {
		return info, err
	}
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("install: Info.plist: %w", err)
	}
	return info, nil
}

// removeBundle deletes the bundle only when it carries this application's
// identifier.
func removeBundle(dir string, t Target) error {
	root := bundlePath(dir, t.Config.Name())
	info, err := readInfoPlist(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Identifier != t.Config.BundleID() {
		return fmt.Errorf("install: %s belongs to %q, not %q", root, info.Identifier, t.Config.BundleID())
	}
	if err := os.RemoveAll(root); err != nil {
		return err
	}
	log.Infow("unregistered", "bundle", root, "bundle_id", info.Identifier)
	return nil
}
