// Package lifecycle drives one desktop run: it creates the application,
// window and web view through the linked backend, blocks in the event loop
// and tears everything down exactly once.
package lifecycle

import (
	"context"
	"runtime/debug"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
	"github.com/petervdpas/deskview/internal/reload"
)

var log = logging.Logger("deskview/lifecycle")

type Controller struct {
	backend desktop.Backend

	// ReloadDelay is the debounce for developer reload. Zero means
	// reload.DefaultDelay.
	ReloadDelay time.Duration
}

func New(b desktop.Backend) *Controller {
	return &Controller{backend: b}
}

// Run sequences createApplication, createWindow, createWebView,
// configureWebView and loadAndPresent, then blocks in the event loop until
// the user quits or ctx is cancelled. It must be called on the UI thread.
func (c *Controller) Run(ctx context.Context, cfg config.AppConfig) (status int) {
	rt := desktop.NewRuntime(cfg, c.backend)
	l := log.With("run", rt.ID, "backend", c.backend.Name())

	// Teardown runs after the recover, also when Start panics.
	defer rt.Teardown()
	defer func() {
		if r := recover(); r != nil {
			l.Errorw("panic in native call", "panic", r, "state", rt.State().String(), "stack", string(debug.Stack()))
			status = desktop.StatusPanic
		}
	}()

	if err := rt.Start(); err != nil {
		l.Errorw("start failed", "err", err)
		return desktop.StatusOf(err)
	}

	if err := rt.Activate(); err != nil {
		l.Errorw("activation failed", "err", err)
		return desktop.StatusOf(err)
	}

	// Fires immediately if ctx is already done; backends queue the quit
	// until their loop runs.
	stop := context.AfterFunc(ctx, func() {
		l.Info("quit requested")
		rt.Quit()
	})
	defer stop()

	if cfg.DevelopMode() && len(cfg.Watch()) > 0 {
		w, err := reload.New(cfg.Watch(), c.ReloadDelay, func() {
			if rt.Reload() {
				l.Debug("reloaded")
			}
		})
		if err != nil {
			l.Warnw("developer reload disabled", "err", err)
		} else {
			defer w.Close()
		}
	}

	l.Infow("running", "url", cfg.URL(), "display", cfg.DisplayMode().String(), "develop", cfg.DevelopMode())
	status, err := rt.Run()
	if err != nil {
		l.Errorw("event loop", "err", err)
	}
	l.Infow("stopped", "status", status)
	return status
}
