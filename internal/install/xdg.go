package install

import (
	"path/filepath"

	"github.com/petervdpas/deskview/internal/icon"
	"github.com/petervdpas/deskview/internal/util"
)

const xdgIconSize = 256

func entryPath(dataHome, bundleID string) string {
	return filepath.Join(dataHome, "applications", bundleID+".desktop")
}

func xdgIconPath(dataHome, bundleID string) string {
	return filepath.Join(dataHome, "icons", "hicolor", "256x256", "apps", bundleID+".png")
}

func registerXDG(dataHome string, t Target) ([]string, error) {
	cfg := t.Config
	id := cfg.BundleID()

	var written []string
	iconName := cfg.Icon()
	if icon.IsFile(cfg.Icon()) {
		data, err := iconCache().Export(cfg.Icon(), xdgIconSize)
		if err != nil {
			return nil, err
		}
		p := xdgIconPath(dataHome, id)
		if err := util.WriteFile(p, data); err != nil {
			return nil, err
		}
		written = append(written, p)
		iconName = id
	}

	comment := cfg.Name()
	if cfg.Vendor() != "" {
		comment += " by " + cfg.Vendor()
	}
	e := &DesktopEntry{
		Type:           "Application",
		Name:           cfg.Name(),
		Comment:        comment,
		Icon:           iconName,
		Exec:           ExecLine(t.argv()...),
		Categories:     []string{"Network", "Utility"},
		StartupWMClass: id,
	}
	p := entryPath(dataHome, id)
	if err := WriteDesktopFile(p, e); err != nil {
		return nil, err
	}
	written = append(written, p)

	log.Infow("registered", "entry", p, "bundle_id", id)
	return written, nil
}

func unregisterXDG(dataHome string, t Target) error {
	id := t.Config.BundleID()
	if err := util.RemoveFile(xdgIconPath(dataHome, id)); err != nil {
		return err
	}
	if err := util.RemoveFile(entryPath(dataHome, id)); err != nil {
		return err
	}
	log.Infow("unregistered", "bundle_id", id)
	return nil
}
