package desktop

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/petervdpas/deskview/internal/config"
)

// RemoteDebugAddr is the inspection endpoint opened in developer mode by
// engines that only support remote inspection.
const RemoteDebugAddr = "0.0.0.0:9090"

// RemoteDebugPort is the port part of RemoteDebugAddr.
const RemoteDebugPort = 9090

// WindowSpec is the window policy derived from an AppConfig.
type WindowSpec struct {
	Title     string
	Icon      string
	Decorated bool
	Resizable bool
	Width     int
	Height    int
	MinWidth  int
	MinHeight int
	Display   config.DisplayMode
}

// WindowSpecFor derives the window policy. Resizable is always true and the
// minimum size is half the default size.
func WindowSpecFor(cfg config.AppConfig) WindowSpec {
	minW, minH := cfg.MinSize()
	return WindowSpec{
		Title:     cfg.Name(),
		Icon:      cfg.Icon(),
		Decorated: cfg.Decorated(),
		Resizable: true,
		Width:     cfg.Width(),
		Height:    cfg.Height(),
		MinWidth:  minW,
		MinHeight: minH,
		Display:   cfg.DisplayMode(),
	}
}

// WebSettings is the web view configuration derived from an AppConfig.
type WebSettings struct {
	// Identity appended to the engine's user agent.
	ApplicationName    string
	ApplicationVersion string

	JavaScript      bool
	ClipboardAccess bool
	LocalStorage    bool
	ConsoleToStdout bool
	DeveloperExtras bool
	ShowInspector   bool
	RemoteDebugAddr string
}

// WebSettingsFor derives the web view settings. Scripting, clipboard access
// and local storage are always enabled; console output and inspection
// tooling follow DevelopMode exactly.
func WebSettingsFor(cfg config.AppConfig) WebSettings {
	s := WebSettings{
		ApplicationName:    cfg.BundleID(),
		ApplicationVersion: cfg.Version(),
		JavaScript:         true,
		ClipboardAccess:    true,
		LocalStorage:       true,
		ConsoleToStdout:    cfg.DevelopMode(),
		DeveloperExtras:    cfg.DevelopMode(),
		ShowInspector:      cfg.DevelopMode(),
	}
	if cfg.DevelopMode() {
		s.RemoteDebugAddr = RemoteDebugAddr
	}
	return s
}

// Inspectable reports whether any debugging entry point is enabled.
func (s WebSettings) Inspectable() bool {
	return s.DeveloperExtras || s.ShowInspector || s.RemoteDebugAddr != ""
}

// ApplicationDetails is the "name/version" token added to the user agent.
func (s WebSettings) ApplicationDetails() string {
	if s.ApplicationName == "" {
		return ""
	}
	if s.ApplicationVersion == "" {
		return s.ApplicationName
	}
	return s.ApplicationName + "/" + s.ApplicationVersion
}

// UserAgent appends the application details to the engine's base user agent.
// The token is not added twice.
func UserAgent(base string, s WebSettings) string {
	details := s.ApplicationDetails()
	base = strings.TrimSpace(base)
	switch {
	case details == "":
		return base
	case base == "":
		return details
	case strings.HasSuffix(base, " "+details) || base == details:
		return base
	default:
		return base + " " + details
	}
}

// WebView2ArgsEnv is read by the WebView2 runtime when its environment is
// created, so it must be set before the first web view exists.
const WebView2ArgsEnv = "WEBVIEW2_ADDITIONAL_BROWSER_ARGUMENTS"

// WebView2Args returns the extra browser arguments for WebView2 engines.
func (s WebSettings) WebView2Args() string {
	if s.RemoteDebugAddr == "" {
		return ""
	}
	return fmt.Sprintf("--remote-debugging-port=%d", RemoteDebugPort)
}

// ExportWebView2Args sets or clears WebView2ArgsEnv on Windows. Clearing it
// keeps an inherited debug port from leaking into non-developer runs.
func ExportWebView2Args(s WebSettings) error {
	if runtime.GOOS != "windows" {
		return nil
	}
	if args := s.WebView2Args(); args != "" {
		return os.Setenv(WebView2ArgsEnv, args)
	}
	return os.Unsetenv(WebView2ArgsEnv)
}
