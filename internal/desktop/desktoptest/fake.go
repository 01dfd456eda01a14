// Package desktoptest provides an in-memory desktop.Backend for tests.
package desktoptest

import (
	"errors"
	"sync"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
)

// Backend records every call and simulates a toolkit whose event loop
// returns when Quit is called.
type Backend struct {
	mu    sync.Mutex
	calls []string

	// Fail makes the named step return ErrInjected.
	Fail string
	// Panic makes Run panic with this value.
	Panic any
	// Status is returned by Run.
	Status int
	// OnRun runs on the "UI thread" inside Run, before it blocks.
	OnRun func(app desktop.Application)

	Teardowns int
	Reloads   int

	quitOnce sync.Once
	quitCh   chan struct{}
	quitFn   func()

	App  *App
	Win  *Window
	View *View
}

var ErrInjected = errors.New("desktoptest: injected failure")

func New() *Backend {
	return &Backend{quitCh: make(chan struct{})}
}

type App struct{ b *Backend }

func (a *App) Quit() {
	a.b.record("quit")
	a.b.quitOnce.Do(func() { close(a.b.quitCh) })
}

type Window struct {
	spec      desktop.WindowSpec
	presented bool
}

func (w *Window) Spec() desktop.WindowSpec { return w.spec }
func (w *Window) Presented() bool { return w.presented }

type View struct {
	settings  desktop.WebSettings
	URL       string
	UserAgent string
}

func (v *View) Settings() desktop.WebSettings { return v.settings }

func (b *Backend) Name() string { return "fake" }

func (b *Backend) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

// Calls returns the recorded call sequence.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// QuitAction is the quit callback registered by the runtime.
func (b *Backend) QuitAction() func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quitFn
}

func (b *Backend) step(name string) error {
	b.record(name)
	if b.Fail == name {
		return ErrInjected
	}
	return nil
}

func (b *Backend) CreateApplication(cfg config.AppConfig, quit func()) (desktop.Application, error) {
	if err := b.step("CreateApplication"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.quitFn = quit
	b.mu.Unlock()
	b.App = &App{b: b}
	return b.App, nil
}

func (b *Backend) CreateWindow(cfg config.AppConfig, app desktop.Application) (desktop.Window, error) {
	if err := b.step("CreateWindow"); err != nil {
		return nil, err
	}
	b.Win = &Window{spec: desktop.WindowSpecFor(cfg)}
	return b.Win, nil
}

func (b *Backend) CreateWebView(win desktop.Window, cfg config.AppConfig) (desktop.View, error) {
	if err := b.step("CreateWebView"); err != nil {
		return nil, err
	}
	b.View = &View{}
	return b.View, nil
}

func (b *Backend) ConfigureWebView(view desktop.View, cfg config.AppConfig) error {
	if err := b.step("ConfigureWebView"); err != nil {
		return err
	}
	v := view.(*View)
	v.settings = desktop.WebSettingsFor(cfg)
	v.UserAgent = desktop.UserAgent("FakeEngine/1.0", v.settings)
	return nil
}

func (b *Backend) LoadAndPresent(view desktop.View, win desktop.Window, cfg config.AppConfig) error {
	if err := b.step("LoadAndPresent"); err != nil {
		return err
	}
	view.(*View).URL = cfg.URL()
	win.(*Window).presented = true
	return nil
}

func (b *Backend) Run(app desktop.Application) int {
	b.record("Run")
	if b.Panic != nil {
		panic(b.Panic)
	}
	if b.OnRun != nil {
		b.OnRun(app)
	}
	<-b.quitCh
	return b.Status
}

func (b *Backend) Teardown(app desktop.Application) {
	b.record("Teardown")
	b.mu.Lock()
	b.Teardowns++
	b.mu.Unlock()
}

func (b *Backend) Reload(view desktop.View) {
	b.record("Reload")
	b.mu.Lock()
	b.Reloads++
	b.mu.Unlock()
}

// ReloadCount is safe to call while Run blocks.
func (b *Backend) ReloadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Reloads
}
