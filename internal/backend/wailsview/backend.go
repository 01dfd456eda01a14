// Package wailsview is the alternative backend built on wails v2. The
// options.App is assembled step by step by the desktop.Backend methods and
// handed to wails.Run, which owns the event loop.
//
// Building a working binary needs the wails build tags (desktop,production
// or dev); without them wails.Run returns an error and Run reports a
// backend init failure.
package wailsview

import (
	"context"
	"errors"
	goruntime "runtime"
	"sync"

	logging "github.com/ipfs/go-log/v2"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
	"github.com/petervdpas/deskview/internal/icon"
)

var log = logging.Logger("deskview/wails")

const backendName = "wails"

// iconSize is the pixel size handed to the Linux window icon.
const iconSize = 256

// tooling is what the wails build tags switched on.
type tooling struct {
	devtools  bool // inspector, F12 and context menu available
	inspector bool // OpenInspectorOnStartup honoured
}

// Backend implements desktop.Backend and desktop.Reloader.
type Backend struct {
	run    func(*options.App) error
	quit   func(ctx context.Context)
	reload func(ctx context.Context)

	goos    string
	tooling tooling
}

func New() *Backend {
	return &Backend{
		run:     wails.Run,
		quit:    runtime.Quit,
		reload:  runtime.WindowReload,
		goos:    goruntime.GOOS,
		tooling: buildTooling,
	}
}

// nativeMenu reports whether the quit accelerator lives in the menu. Only
// macOS keeps its application menu out of the window.
func (b *Backend) nativeMenu() bool { return b.goos == "darwin" }

type application struct {
	b      *Backend
	onQuit func()
	opts   *options.App

	mu          sync.Mutex
	ctx         context.Context
	pendingQuit bool
	done        bool
}

// Quit asks wails to leave its loop. Before OnStartup the request is kept and
// replayed as soon as the runtime context exists.
func (a *application) Quit() {
	a.mu.Lock()
	ctx, done := a.ctx, a.done
	if ctx == nil && !done {
		a.pendingQuit = true
	}
	a.mu.Unlock()
	if ctx != nil && !done {
		a.b.quit(ctx)
	}
}

func (a *application) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	pending := a.pendingQuit
	a.mu.Unlock()
	log.Debug("runtime started")
	if pending {
		a.b.quit(ctx)
	}
}

func (a *application) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return nil
	}
	return a.ctx
}

type window struct {
	app  *application
	spec desktop.WindowSpec
}

func (w *window) Spec() desktop.WindowSpec { return w.spec }

type view struct {
	app      *application
	settings desktop.WebSettings
}

func (v *view) Settings() desktop.WebSettings { return v.settings }

func (b *Backend) Name() string { return backendName }

func foreign(kind string) error {
	return errors.New("wails: foreign " + kind + " handle")
}

// CreateApplication registers the program name. On macOS it adds the Quit
// menu item with its Cmd+Q accelerator; elsewhere a menu would show as a bar
// inside the window, so the page shortcut is injected instead.
func (b *Backend) CreateApplication(cfg config.AppConfig, quit func()) (desktop.Application, error) {
	a := &application{b: b, onQuit: quit}

	var appMenu *menu.Menu
	if b.nativeMenu() {
		appMenu = menu.NewMenu()
		sub := appMenu.AddSubmenu(cfg.Name())
		sub.AddText("Quit", keys.CmdOrCtrl("q"), func(*menu.CallbackData) { a.onQuit() })
	}

	a.opts = &options.App{
		Menu:      appMenu,
		OnStartup: a.startup,
		OnShutdown: func(context.Context) {
			log.Debug("runtime stopped")
		},
		Linux: &linux.Options{
			ProgramName: cfg.BundleID(),
		},
		Logger: wailsLogger{},
	}
	log.Debugw("application created", "bundle_id", cfg.BundleID())
	return a, nil
}

func (b *Backend) CreateWindow(cfg config.AppConfig, app desktop.Application) (desktop.Window, error) {
	a, ok := app.(*application)
	if !ok {
		return nil, foreign("application")
	}
	spec := desktop.WindowSpecFor(cfg)

	o := a.opts
	o.Title = spec.Title
	o.Width, o.Height = spec.Width, spec.Height
	o.MinWidth, o.MinHeight = spec.MinWidth, spec.MinHeight
	o.DisableResize = !spec.Resizable
	o.Frameless = !spec.Decorated
	switch spec.Display {
	case config.DisplayFullScreen:
		o.WindowStartState = options.Fullscreen
	case config.DisplayMaximized:
		o.WindowStartState = options.Maximised
	default:
		o.WindowStartState = options.Normal
	}

	data, err := icon.For(spec.Icon, spec.Title, iconSize)
	if err != nil {
		log.Warnw("icon unusable, using placeholder", "icon", spec.Icon, "err", err)
	}
	o.Linux.Icon = data

	log.Debugw("window created", "width", spec.Width, "height", spec.Height, "display", spec.Display.String())
	return &window{app: a, spec: spec}, nil
}

func (b *Backend) CreateWebView(win desktop.Window, cfg config.AppConfig) (desktop.View, error) {
	w, ok := win.(*window)
	if !ok {
		return nil, foreign("window")
	}
	return &view{app: w.app}, nil
}

func (b *Backend) ConfigureWebView(dv desktop.View, cfg config.AppConfig) error {
	v, ok := dv.(*view)
	if !ok {
		return foreign("view")
	}
	s := desktop.WebSettingsFor(cfg)
	if err := b.checkTooling(s); err != nil {
		return &desktop.BackendInitError{Backend: backendName, Err: err}
	}

	handler, err := contentHandler(cfg.URL(), s)
	if err != nil {
		return &desktop.BackendInitError{Backend: backendName, Err: err}
	}
	if !b.nativeMenu() {
		handler = injectScript(handler, quitScript)
	}

	o := v.app.opts
	o.AssetServer = &assetserver.Options{Handler: handler}
	o.Debug = options.Debug{OpenInspectorOnStartup: s.ShowInspector}
	o.EnableDefaultContextMenu = s.DeveloperExtras
	if cfg.DevelopMode() {
		o.LogLevel, o.LogLevelProduction = logger.DEBUG, logger.DEBUG
	} else {
		o.LogLevel, o.LogLevelProduction = logger.ERROR, logger.ERROR
	}

	if err := desktop.ExportWebView2Args(s); err != nil {
		log.Warnf("remote debugging: %v", err)
	}
	if s.ConsoleToStdout {
		log.Warnw("not supported on this backend", "setting", "console-to-stdout")
	}

	v.settings = s
	return nil
}

// checkTooling refuses settings the build cannot honour: wails turns its
// developer tools on or off by build tag only.
func (b *Backend) checkTooling(s desktop.WebSettings) error {
	switch {
	case s.DeveloperExtras && !b.tooling.devtools:
		return errors.New("developer mode needs a wails build with the dev, debug or devtools tag")
	case !s.DeveloperExtras && b.tooling.devtools:
		return errors.New("this wails build always enables the inspector; enable developer mode or build without the dev, debug and devtools tags")
	case s.ShowInspector && !b.tooling.inspector:
		log.Warnw("inspector will not open on startup in a devtools-only build", "hint", "right-click, Inspect")
	}
	return nil
}

// LoadAndPresent has nothing left to do: wails shows the window and loads
// the asset server's start page when Run starts the loop.
func (b *Backend) LoadAndPresent(dv desktop.View, win desktop.Window, cfg config.AppConfig) error {
	if _, ok := dv.(*view); !ok {
		return foreign("view")
	}
	log.Infow("loading", "url", cfg.URL())
	return nil
}

func (b *Backend) Run(app desktop.Application) int {
	a, ok := app.(*application)
	if !ok {
		return desktop.StatusBackendInit
	}
	if err := b.run(a.opts); err != nil {
		log.Errorw("run failed", "err", &desktop.BackendInitError{Backend: backendName, Err: err})
		return desktop.StatusBackendInit
	}
	return desktop.StatusOK
}

func (b *Backend) Teardown(app desktop.Application) {
	a, ok := app.(*application)
	if !ok {
		return
	}
	a.mu.Lock()
	a.done = true
	a.ctx = nil
	a.mu.Unlock()
}

func (b *Backend) Reload(dv desktop.View) {
	v, ok := dv.(*view)
	if !ok {
		return
	}
	if ctx := v.app.context(); ctx != nil {
		b.reload(ctx)
	}
}
