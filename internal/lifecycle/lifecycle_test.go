package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/zap/zapcore"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
	"github.com/petervdpas/deskview/internal/desktop/desktoptest"
)

func demo() config.Descriptor {
	return config.Descriptor{
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
}

func quitOnRun(b *desktoptest.Backend) {
	b.OnRun = func(app desktop.Application) { app.Quit() }
}

func TestDemoRun(t *testing.T) {
	b := desktoptest.New()
	quitOnRun(b)

	if status := StartWith(context.Background(), demo(), b); status != desktop.StatusOK {
		t.Fatalf("status = %d", status)
	}

	want := "CreateApplication,CreateWindow,CreateWebView,ConfigureWebView,LoadAndPresent,Run,quit,Teardown"
	if got := strings.Join(b.Calls(), ","); got != want {
		t.Fatalf("calls = %s", got)
	}
	spec := b.Win.Spec()
	if spec.Display != config.DisplayMaximized || spec.MinWidth != 640 || spec.MinHeight != 360 {
		t.Fatalf("window = %+v", spec)
	}
	if b.View.Settings().Inspectable() {
		t.Fatal("inspector enabled without developer mode")
	}
	if !b.Win.Presented() || b.View.URL != "http://127.0.0.1:9999" {
		t.Fatal("content not loaded and presented")
	}
}

func TestConfigErrorBeforeNativeCall(t *testing.T) {
	b := desktoptest.New()
	d := demo()
	d.Width = 0

	if status := StartWith(context.Background(), d, b); status != desktop.StatusConfig {
		t.Fatalf("status = %d", status)
	}
	if calls := b.Calls(); len(calls) != 0 {
		t.Fatalf("native calls made: %v", calls)
	}
}

func TestPanicInEventLoop(t *testing.T) {
	b := desktoptest.New()
	b.Panic = "toolkit exploded"

	if status := StartWith(context.Background(), demo(), b); status != desktop.StatusPanic {
		t.Fatalf("status = %d", status)
	}
	if b.Teardowns != 1 {
		t.Fatalf("teardowns = %d", b.Teardowns)
	}

	// The guard is free again.
	next := desktoptest.New()
	quitOnRun(next)
	if status := StartWith(context.Background(), demo(), next); status != desktop.StatusOK {
		t.Fatalf("second run status = %d", status)
	}
}

// panicOnCreate panics inside the first native call.
type panicOnCreate struct {
	*desktoptest.Backend
}

func (panicOnCreate) CreateApplication(config.AppConfig, func()) (desktop.Application, error) {
	panic("toolkit init exploded")
}

func TestPanicInCreateApplication(t *testing.T) {
	b := panicOnCreate{desktoptest.New()}

	var status int
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic escaped: %v", r)
			}
		}()
		status = StartWith(context.Background(), demo(), b)
	}()
	if status != desktop.StatusPanic {
		t.Fatalf("status = %d", status)
	}

	next := desktoptest.New()
	quitOnRun(next)
	if status := StartWith(context.Background(), demo(), next); status != desktop.StatusOK {
		t.Fatalf("second run status = %d, calls = %v", status, next.Calls())
	}
}

func TestContextCancelQuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := desktoptest.New()
	b.OnRun = func(desktop.Application) { cancel() }

	if status := StartWith(ctx, demo(), b); status != desktop.StatusOK {
		t.Fatalf("status = %d", status)
	}
}

func TestCancelledBeforeRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := desktoptest.New()
	if status := StartWith(ctx, demo(), b); status != desktop.StatusOK {
		t.Fatalf("status = %d", status)
	}
}

func TestNativeStatusPropagates(t *testing.T) {
	b := desktoptest.New()
	b.Status = 5
	quitOnRun(b)

	if status := StartWith(context.Background(), demo(), b); status != 5 {
		t.Fatalf("status = %d", status)
	}
}

func TestActivationFailureTearsDown(t *testing.T) {
	b := desktoptest.New()
	b.Fail = "CreateWebView"

	if status := StartWith(context.Background(), demo(), b); status != desktop.StatusBackendInit {
		t.Fatalf("status = %d", status)
	}
	for _, c := range b.Calls() {
		if c == "Run" {
			t.Fatal("event loop entered after failed activation")
		}
	}
	if b.Teardowns != 1 {
		t.Fatalf("teardowns = %d", b.Teardowns)
	}
}

func TestSecondApplicationRejected(t *testing.T) {
	cfg, err := config.New(demo())
	if err != nil {
		t.Fatal(err)
	}
	holder := desktop.NewRuntime(cfg, desktoptest.New())
	if err := holder.Start(); err != nil {
		t.Fatal(err)
	}
	defer holder.Teardown()

	b := desktoptest.New()
	if status := New(b).Run(context.Background(), cfg); status != desktop.StatusAlreadyRunning {
		t.Fatalf("status = %d", status)
	}
	if len(b.Calls()) != 0 {
		t.Fatalf("backend touched: %v", b.Calls())
	}
}

func TestDeveloperReload(t *testing.T) {
	dir := t.TempDir()
	d := demo()
	d.DevelopMode = true
	d.Watch = []string{dir}
	cfg, err := config.New(d)
	if err != nil {
		t.Fatal(err)
	}

	b := desktoptest.New()
	b.OnRun = func(app desktop.Application) {
		go func() {
			defer app.Quit()
			deadline := time.Now().Add(3 * time.Second)
			for time.Now().Before(deadline) {
				_ = os.WriteFile(filepath.Join(dir, "index.html"), []byte(time.Now().String()), 0644)
				time.Sleep(100 * time.Millisecond)
				if b.ReloadCount() > 0 {
					return
				}
			}
		}()
	}

	c := New(b)
	c.ReloadDelay = 20 * time.Millisecond
	if status := c.Run(context.Background(), cfg); status != desktop.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if b.ReloadCount() == 0 {
		t.Fatal("view was not reloaded")
	}
}

func debugOn() bool { return log.Desugar().Core().Enabled(zapcore.DebugLevel) }
func infoOn() bool { return log.Desugar().Core().Enabled(zapcore.InfoLevel) }

func TestConfigureLoggingLevels(t *testing.T) {
	t.Setenv("GOLOG_LOG_LEVEL", "")
	t.Cleanup(func() { ConfigureLogging(false) })

	ConfigureLogging(true)
	if !debugOn() {
		t.Fatal("developer mode did not enable debug")
	}
	ConfigureLogging(false)
	if debugOn() || !infoOn() {
		t.Fatalf("want info level, debug=%t info=%t", debugOn(), infoOn())
	}
}

func TestConfigureLoggingHonoursEnv(t *testing.T) {
	t.Cleanup(func() { ConfigureLogging(false) })
	if err := logging.SetLogLevel("deskview/lifecycle", "error"); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GOLOG_LOG_LEVEL", "error")
	ConfigureLogging(true)
	if debugOn() || infoOn() {
		t.Fatalf("level changed despite GOLOG_LOG_LEVEL, debug=%t info=%t", debugOn(), infoOn())
	}
}
