// Package desktop defines the contract every native backend implements and
// the window and web view policy derived from an AppConfig.
//
// Exactly one backend is linked into a binary (see internal/backend). The
// lifecycle package drives it through a Runtime, which owns the process-wide
// application guard and the state machine.
package desktop

import (
	"github.com/petervdpas/deskview/internal/config"
)

// Application is the toolkit's process-wide application object.
// Quit may be called from any goroutine; backends marshal it onto the UI thread.
type Application interface {
	Quit()
}

// Window is the native top-level window. Spec reports the geometry and
// display state the toolkit was asked to realize.
type Window interface {
	Spec() WindowSpec
}

// View is the single web view hosted by the window.
type View interface {
	Settings() WebSettings
}

// Backend translates an AppConfig into toolkit calls. Methods are called in
// declaration order, on the UI thread, once per process.
type Backend interface {
	Name() string

	// CreateApplication registers the bundle id, the quit action and the
	// quit accelerator. quit is the action the accelerator must trigger.
	CreateApplication(cfg config.AppConfig, quit func()) (Application, error)
	CreateWindow(cfg config.AppConfig, app Application) (Window, error)
	CreateWebView(win Window, cfg config.AppConfig) (View, error)
	ConfigureWebView(view View, cfg config.AppConfig) error

	// LoadAndPresent starts navigation and shows the window without waiting
	// for the load to finish.
	LoadAndPresent(view View, win Window, cfg config.AppConfig) error

	// Run blocks in the native event loop and returns its exit status.
	Run(app Application) int
	Teardown(app Application)
}

// Reloader is implemented by backends that can reload the current page.
// Reload may be called from any goroutine.
type Reloader interface {
	Reload(view View)
}
