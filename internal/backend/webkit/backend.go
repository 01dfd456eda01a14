// Package webkit is the default backend: github.com/webview/webview_go for
// the window and web view, plus a GTK/WebKit2GTK tuner on Linux for the
// settings webview does not expose.
package webkit

import (
	"errors"
	"sync"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/deskview/internal/bootstrap"
	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
)

var (
	log        = logging.Logger("deskview/webkit")
	consoleLog = logging.Logger("deskview/console")
)

const backendName = "webkit"

// Backend implements desktop.Backend and desktop.Reloader.
type Backend struct {
	newEngine func(debug bool) (engine, error)
	tuner     tuner
}

// New returns the backend for the current platform.
func New() *Backend {
	return &Backend{newEngine: newEngine, tuner: newTuner()}
}

type application struct {
	quit func()

	mu        sync.Mutex
	engine    engine
	destroyed bool
}

// Quit leaves the event loop. Terminate is dispatched so it runs on the UI
// thread whatever goroutine asked.
func (a *application) Quit() {
	a.mu.Lock()
	e, dead := a.engine, a.destroyed
	a.mu.Unlock()
	if e == nil || dead {
		return
	}
	e.Dispatch(e.Terminate)
}

type window struct {
	spec   desktop.WindowSpec
	app    *application
	engine engine

	// nativeQuit is set when the toolkit handles Ctrl+Q itself.
	nativeQuit bool
}

func (w *window) Spec() desktop.WindowSpec { return w.spec }

type view struct {
	win      *window
	settings desktop.WebSettings
}

func (v *view) Settings() desktop.WebSettings { return v.settings }

func (b *Backend) Name() string { return backendName }

func initError(err error) error {
	return &desktop.BackendInitError{Backend: backendName, Err: err}
}

func (b *Backend) logUnsupported(step string, knobs []string) {
	for _, k := range knobs {
		log.Warnw("not supported on this platform", "step", step, "setting", k)
	}
}

func (b *Backend) CreateApplication(cfg config.AppConfig, quit func()) (desktop.Application, error) {
	unsupported, err := b.tuner.Prepare(cfg.BundleID())
	if err != nil {
		return nil, initError(err)
	}
	b.logUnsupported("application", unsupported)
	log.Debugw("application created", "bundle_id", cfg.BundleID())
	return &application{quit: quit}, nil
}

func (b *Backend) CreateWindow(cfg config.AppConfig, app desktop.Application) (desktop.Window, error) {
	a, ok := app.(*application)
	if !ok {
		return nil, errors.New("webkit: foreign application handle")
	}

	settings := desktop.WebSettingsFor(cfg)
	if err := desktop.ExportWebView2Args(settings); err != nil {
		log.Warnf("remote debugging: %v", err)
	}

	e, err := b.newEngine(settings.DeveloperExtras)
	if err != nil {
		return nil, initError(err)
	}
	a.mu.Lock()
	a.engine = e
	a.mu.Unlock()

	spec := desktop.WindowSpecFor(cfg)
	e.SetTitle(spec.Title)
	e.SetSize(spec.MinWidth, spec.MinHeight, HintMin)
	e.SetSize(spec.Width, spec.Height, HintNone)
	b.logUnsupported("window", b.tuner.Window(e.Window(), spec))

	nativeQuit := !contains(b.tuner.QuitAccelerator(e.Window()), KnobAccelerator)
	if !nativeQuit {
		log.Debug("no native quit accelerator, using the page shortcut")
	}

	log.Debugw("window created", "width", spec.Width, "height", spec.Height, "display", spec.Display.String())
	return &window{spec: spec, app: a, engine: e, nativeQuit: nativeQuit}, nil
}

// CreateWebView returns the view webview created together with the window.
func (b *Backend) CreateWebView(win desktop.Window, cfg config.AppConfig) (desktop.View, error) {
	w, ok := win.(*window)
	if !ok {
		return nil, errors.New("webkit: foreign window handle")
	}
	return &view{win: w}, nil
}

func (b *Backend) ConfigureWebView(dv desktop.View, cfg config.AppConfig) error {
	v, ok := dv.(*view)
	if !ok {
		return errors.New("webkit: foreign view handle")
	}
	e := v.win.engine
	s := desktop.WebSettingsFor(cfg)

	unsupported := b.tuner.Settings(e.Window(), s)
	b.logUnsupported("web view", unsupported)

	opts := bootstrap.Options{
		QuitShortcut:  !v.win.nativeQuit,
		ConsoleBridge: s.ConsoleToStdout && contains(unsupported, KnobConsole),
	}
	if opts.QuitShortcut {
		quit := v.win.app.quit
		if err := e.Bind(bootstrap.QuitBinding, func() { quit() }); err != nil {
			return err
		}
	}
	if opts.ConsoleBridge {
		if err := e.Bind(bootstrap.ConsoleBinding, forwardConsole); err != nil {
			return err
		}
	}
	if script := bootstrap.Script(opts); script != "" {
		e.Init(script)
	}

	v.settings = s
	return nil
}

func forwardConsole(level, msg string) {
	switch level {
	case "error":
		consoleLog.Error(msg)
	case "warn":
		consoleLog.Warn(msg)
	case "debug":
		consoleLog.Debug(msg)
	default:
		consoleLog.Info(msg)
	}
}

func (b *Backend) LoadAndPresent(dv desktop.View, win desktop.Window, cfg config.AppConfig) error {
	v, ok := dv.(*view)
	if !ok {
		return errors.New("webkit: foreign view handle")
	}
	e := v.win.engine
	e.Navigate(cfg.URL())
	b.logUnsupported("present", b.tuner.Present(e.Window(), v.settings.ShowInspector))
	log.Infow("loading", "url", cfg.URL())
	return nil
}

func (b *Backend) Run(app desktop.Application) int {
	a, ok := app.(*application)
	if !ok || a.engine == nil {
		return desktop.StatusBackendInit
	}
	a.engine.Run()
	return desktop.StatusOK
}

func (b *Backend) Teardown(app desktop.Application) {
	a, ok := app.(*application)
	if !ok {
		return
	}
	a.mu.Lock()
	e, dead := a.engine, a.destroyed
	a.destroyed = true
	a.mu.Unlock()
	if e != nil && !dead {
		e.Destroy()
	}
}

func (b *Backend) Reload(dv desktop.View) {
	v, ok := dv.(*view)
	if !ok {
		return
	}
	e := v.win.engine
	e.Dispatch(func() { e.Eval("location.reload()") })
}
