package wailsview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
)

type fakeRuntime struct {
	opts    *options.App
	quitCh  chan struct{}
	quits   atomic.Int32
	reloads atomic.Int32
	err     error
}

func newFakeBackend() (*Backend, *fakeRuntime) {
	rt := &fakeRuntime{quitCh: make(chan struct{}, 1)}
	b := &Backend{
		run: func(o *options.App) error {
			rt.opts = o
			if rt.err != nil {
				return rt.err
			}
			o.OnStartup(context.Background())
			<-rt.quitCh
			o.OnShutdown(context.Background())
			return nil
		},
		quit: func(context.Context) {
			if rt.quits.Add(1) == 1 {
				rt.quitCh <- struct{}{}
			}
		},
		reload: func(context.Context) { rt.reloads.Add(1) },
		goos:   "darwin",
	}
	return b, rt
}

func testConfig(t *testing.T, edit func(*config.Descriptor)) config.AppConfig {
	t.Helper()
	d := config.Descriptor{
		Name:      "Demo",
		BundleID:  "com.example.demo",
		Icon:      "demo",
		Version:   "1.0.0",
		URL:       "http://127.0.0.1:9999",
		Maximized: true,
		Decorated: true,
		Width:     1280,
		Height:    720,
	}
	if edit != nil {
		edit(&d)
	}
	cfg, err := config.New(d)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func activate(t *testing.T, b *Backend, cfg config.AppConfig, quit func()) (*application, desktop.View) {
	t.Helper()
	app, err := b.CreateApplication(cfg, quit)
	if err != nil {
		t.Fatal(err)
	}
	win, err := b.CreateWindow(cfg, app)
	if err != nil {
		t.Fatal(err)
	}
	v, err := b.CreateWebView(win, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ConfigureWebView(v, cfg); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadAndPresent(v, win, cfg); err != nil {
		t.Fatal(err)
	}
	return app.(*application), v
}

func TestDemoScenarioOptions(t *testing.T) {
	b, rt := newFakeBackend()
	var a *application
	a, _ = activate(t, b, testConfig(t, nil), func() { a.Quit() })

	o := a.opts
	if o.Title != "Demo" || o.Width != 1280 || o.Height != 720 {
		t.Fatalf("geometry = %q %dx%d", o.Title, o.Width, o.Height)
	}
	if o.MinWidth != 640 || o.MinHeight != 360 {
		t.Fatalf("min = %dx%d", o.MinWidth, o.MinHeight)
	}
	if o.WindowStartState != options.Maximised || o.Frameless || o.DisableResize {
		t.Fatalf("state = %v frameless=%v", o.WindowStartState, o.Frameless)
	}
	if o.Linux.ProgramName != "com.example.demo" || len(o.Linux.Icon) == 0 {
		t.Fatal("linux options incomplete")
	}
	if o.Debug.OpenInspectorOnStartup || o.LogLevel != logger.ERROR {
		t.Fatal("developer tooling enabled outside developer mode")
	}
	if o.AssetServer == nil || o.AssetServer.Handler == nil {
		t.Fatal("no content handler")
	}

	// The Quit menu item runs the registered quit action.
	items := o.Menu.Items
	if len(items) != 1 || items[0].SubMenu == nil || len(items[0].SubMenu.Items) != 1 {
		t.Fatalf("unexpected menu layout")
	}
	quitItem := items[0].SubMenu.Items[0]
	if quitItem.Label != "Quit" || quitItem.Accelerator == nil || quitItem.Accelerator.Key != "q" {
		t.Fatalf("quit item = %+v", quitItem)
	}

	done := make(chan int)
	go func() { done <- b.Run(a) }()
	// Before or after startup, exactly one quit reaches the runtime.
	quitItem.Click(nil)
	if status := <-done; status != desktop.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if rt.quits.Load() != 1 {
		t.Fatalf("runtime quit called %d times", rt.quits.Load())
	}
}

func TestFullscreenAndFrameless(t *testing.T) {
	b, _ := newFakeBackend()
	a, _ := activate(t, b, testConfig(t, func(d *config.Descriptor) {
		d.FullScreen = true
		d.Decorated = false
	}), func() {})

	if a.opts.WindowStartState != options.Fullscreen {
		t.Fatalf("state = %v", a.opts.WindowStartState)
	}
	if !a.opts.Frameless {
		t.Fatal("undecorated window must be frameless")
	}
}

func TestDevelopModeOptions(t *testing.T) {
	b, _ := newFakeBackend()
	b.tooling = tooling{devtools: true, inspector: true}
	a, v := activate(t, b, testConfig(t, func(d *config.Descriptor) { d.DevelopMode = true }), func() {})

	if !a.opts.Debug.OpenInspectorOnStartup || !a.opts.EnableDefaultContextMenu {
		t.Fatal("inspector not enabled in developer mode")
	}
	if a.opts.LogLevel != logger.DEBUG {
		t.Fatalf("log level = %v", a.opts.LogLevel)
	}
	if v.Settings().RemoteDebugAddr != desktop.RemoteDebugAddr {
		t.Fatal("remote debug address missing")
	}
}

func TestToolingMustMatchDevelopMode(t *testing.T) {
	tests := []struct {
		name    string
		tooling tooling
		develop bool
		ok      bool
	}{
		{"production build", tooling{}, false, true},
		{"production build, developer mode", tooling{}, true, false},
		{"debug build, developer mode", tooling{devtools: true, inspector: true}, true, true},
		{"debug build", tooling{devtools: true, inspector: true}, false, false},
		{"devtools build, developer mode", tooling{devtools: true}, true, true},
		{"devtools build", tooling{devtools: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newFakeBackend()
			b.tooling = tt.tooling
			cfg := testConfig(t, func(d *config.Descriptor) { d.DevelopMode = tt.develop })
			app, _ := b.CreateApplication(cfg, func() {})
			win, _ := b.CreateWindow(cfg, app)
			v, _ := b.CreateWebView(win, cfg)

			err := b.ConfigureWebView(v, cfg)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && desktop.StatusOf(err) != desktop.StatusBackendInit {
				t.Fatalf("err = %v, want backend init failure", err)
			}
		})
	}
}

func TestPageQuitShortcutOffMac(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/app.js" {
			w.Header().Set("Content-Type", "application/javascript")
			w.Write([]byte("console.log(1)"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>x</title></head><body></body></html>"))
	}))
	defer upstream.Close()

	b, _ := newFakeBackend()
	b.goos = "linux"
	a, _ := activate(t, b, testConfig(t, func(d *config.Descriptor) { d.URL = upstream.URL }), func() {})

	if a.opts.Menu != nil {
		t.Fatal("menu bar added outside macOS")
	}

	rec := httptest.NewRecorder()
	a.opts.AssetServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	if !strings.HasPrefix(body, "<html><head><script>") || !strings.Contains(body, "window.runtime.Quit()") {
		t.Fatalf("body = %q", body)
	}
	if rec.Header().Get("Content-Length") != strconv.Itoa(len(body)) {
		t.Fatalf("content length = %s, body %d", rec.Header().Get("Content-Length"), len(body))
	}

	rec = httptest.NewRecorder()
	a.opts.AssetServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	if rec.Body.String() != "console.log(1)" {
		t.Fatalf("script rewritten: %q", rec.Body.String())
	}
}

func TestInsertScriptWithoutHead(t *testing.T) {
	got := string(insertScript([]byte("<p>hi</p>"), "x()"))
	if got != "<script>x()</script><p>hi</p>" {
		t.Fatalf("got %q", got)
	}
	got = string(insertScript([]byte(`<HEAD lang="en"><b>`), "x()"))
	if got != `<HEAD lang="en"><script>x()</script><b>` {
		t.Fatalf("got %q", got)
	}
}

func TestQuitBeforeStartupIsReplayed(t *testing.T) {
	b, rt := newFakeBackend()
	a, _ := activate(t, b, testConfig(t, nil), func() {})

	a.Quit()
	if rt.quits.Load() != 0 {
		t.Fatal("quit reached the runtime before startup")
	}
	if status := b.Run(a); status != desktop.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if rt.quits.Load() != 1 {
		t.Fatalf("quits = %d", rt.quits.Load())
	}
}

func TestRunErrorIsInitFailure(t *testing.T) {
	b, rt := newFakeBackend()
	rt.err = errors.New("wails: missing build tags")
	a, _ := activate(t, b, testConfig(t, nil), func() {})

	if status := b.Run(a); status != desktop.StatusBackendInit {
		t.Fatalf("status = %d", status)
	}
}

func TestReloadAndTeardown(t *testing.T) {
	b, rt := newFakeBackend()
	a, v := activate(t, b, testConfig(t, nil), func() {})

	b.Reload(v)
	if rt.reloads.Load() != 0 {
		t.Fatal("reload before startup must be dropped")
	}
	a.startup(context.Background())
	b.Reload(v)
	if rt.reloads.Load() != 1 {
		t.Fatalf("reloads = %d", rt.reloads.Load())
	}

	b.Teardown(a)
	b.Teardown(a)
	b.Reload(v)
	a.Quit()
	if rt.reloads.Load() != 1 || rt.quits.Load() != 0 {
		t.Fatal("runtime used after teardown")
	}
}

func TestConfigureRejectsUnsupportedScheme(t *testing.T) {
	b, _ := newFakeBackend()
	cfg := testConfig(t, func(d *config.Descriptor) { d.URL = "ftp://example.com/" })
	app, _ := b.CreateApplication(cfg, func() {})
	win, _ := b.CreateWindow(cfg, app)
	v, _ := b.CreateWebView(win, cfg)

	err := b.ConfigureWebView(v, cfg)
	if desktop.StatusOf(err) != desktop.StatusBackendInit {
		t.Fatalf("err = %v", err)
	}
}

func TestProxyRewritesUserAgentAndEntry(t *testing.T) {
	var gotUA, gotPath, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA, gotPath, gotQuery = r.UserAgent(), r.URL.Path, r.URL.RawQuery
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	s := desktop.WebSettings{ApplicationName: "com.example.demo", ApplicationVersion: "1.0.0"}
	h, err := contentHandler(upstream.URL+"/app/?lang=en", s)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 AppleWebKit")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotUA != "Mozilla/5.0 AppleWebKit com.example.demo/1.0.0" {
		t.Fatalf("user agent = %q", gotUA)
	}
	if gotPath != "/app/" || gotQuery != "lang=en" {
		t.Fatalf("entry = %q ? %q", gotPath, gotQuery)
	}

	// Other paths pass through untouched.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if gotPath != "/static/app.js" || gotQuery != "" {
		t.Fatalf("asset path = %q ? %q", gotPath, gotQuery)
	}
}

func TestProxyUpstreamDown(t *testing.T) {
	h, err := contentHandler("http://127.0.0.1:1", desktop.WebSettings{})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestFileContent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.html"), []byte("<h1>hi</h1>"), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := contentHandler("file://"+filepath.ToSlash(filepath.Join(dir, "main.html")), desktop.WebSettings{})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "<h1>hi</h1>") {
		t.Fatalf("body = %q", rec.Body.String())
	}

	if _, err := contentHandler("file://"+filepath.ToSlash(filepath.Join(dir, "missing")), desktop.WebSettings{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
