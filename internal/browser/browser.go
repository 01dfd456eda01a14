// Package browser runs the application without a native backend: in a
// Chromium-family browser's app mode, or headless with only the URL logged.
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
	"github.com/petervdpas/deskview/internal/util"
)

var log = logging.Logger("deskview/browser")

type Options struct {
	URL         string
	Width       int
	Height      int
	FullScreen  bool
	Maximized   bool
	DevelopMode bool
}

func OptionsFor(cfg config.AppConfig) Options {
	return Options{
		URL:         cfg.URL(),
		Width:       cfg.Width(),
		Height:      cfg.Height(),
		FullScreen:  cfg.FullScreen(),
		Maximized:   cfg.Maximized(),
		DevelopMode: cfg.DevelopMode(),
	}
}

type family int

const (
	chromium family = iota
	firefox
)

type candidate struct {
	flatpak string // application id under flatpakExports, or ""
	bin     string // executable looked up on PATH, or ""
	family  family
}

const flatpakExports = "/var/lib/flatpak/exports/bin"

// Tried in order; flatpak installs first.
var candidates = []candidate{
	{flatpak: "com.google.Chrome"},
	{flatpak: "com.microsoft.Edge"},
	{flatpak: "com.brave.Browser"},
	{flatpak: "org.chromium.Chromium"},
	{bin: "google-chrome"},
	{bin: "google-chrome-stable"},
	{bin: "chromium"},
	{bin: "chromium-browser"},
	{bin: "microsoft-edge"},
	{bin: "brave-browser"},
	{flatpak: "org.mozilla.firefox", family: firefox},
	{bin: "firefox", family: firefox},
}

func chromeArgs(o Options) []string {
	args := []string{
		"--app=" + o.URL,
		fmt.Sprintf("--window-size=%d,%d", o.Width, o.Height),
		"--window-position=center",
		"--allow-insecure-localhost",
		"--disable-background-mode",
		"--disable-background-networking",
		"--disable-breakpad",
		"--disable-component-update",
		"--disable-default-apps",
		"--disable-extensions",
		"--disable-infobars",
		"--disable-sync",
		"--disable-translate",
		"--no-default-browser-check",
		"--no-first-run",
		"--password-store=basic",
		"--use-mock-keychain",
	}
	switch {
	case o.FullScreen:
		args = append(args, "--start-fullscreen")
	case o.Maximized:
		args = append(args, "--start-maximized")
	}
	if o.DevelopMode {
		args = append(args,
			fmt.Sprintf("--remote-debugging-port=%d", desktop.RemoteDebugPort),
			"--remote-allow-origins=*",
		)
	}
	return args
}

func firefoxArgs(o Options) []string {
	args := []string{"--new-window"}
	if o.FullScreen {
		args = append(args, "--kiosk")
	}
	if o.DevelopMode {
		args = append(args, "--devtools")
	}
	return append(args, o.URL)
}

type finder struct {
	lookPath func(string) (string, error)
	exists   func(string) bool
}

var system = finder{
	lookPath: exec.LookPath,
	exists: func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	},
}

// command returns the argv of the first available browser.
func (f finder) command(o Options) ([]string, bool) {
	for _, c := range candidates {
		var argv []string
		switch {
		case c.flatpak != "":
			if !f.exists(filepath.Join(flatpakExports, c.flatpak)) {
				continue
			}
			argv = []string{"flatpak", "run", c.flatpak}
		default:
			path, err := f.lookPath(c.bin)
			if err != nil {
				continue
			}
			argv = []string{path}
		}
		if c.family == firefox {
			return append(argv, firefoxArgs(o)...), true
		}
		return append(argv, chromeArgs(o)...), true
	}
	return nil, false
}

// Open runs the first available browser and blocks until it exits or ctx is
// done. Without one it hands the URL to the system opener and waits for ctx.
func Open(ctx context.Context, o Options) error {
	return system.open(ctx, o)
}

func (f finder) open(ctx context.Context, o Options) error {
	argv, ok := f.command(o)
	if !ok {
		log.Infow("no app-mode browser found, using system opener", "url", o.URL)
		if err := util.OpenURL(o.URL); err != nil {
			return fmt.Errorf("open %s: %w", o.URL, err)
		}
		<-ctx.Done()
		return nil
	}

	log.Infow("launching", "browser", argv[0], "url", o.URL)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("browser %s: %w", argv[0], err)
	}
	return nil
}

// Headless logs where to point a browser and waits for ctx.
func Headless(ctx context.Context, url string) error {
	log.Warnw("running headless, open the application in a browser", "url", url)
	<-ctx.Done()
	return nil
}
