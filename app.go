// app.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/petervdpas/deskview/internal/browser"
	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
	"github.com/petervdpas/deskview/internal/install"
	"github.com/petervdpas/deskview/internal/lifecycle"
)

const (
	modeNative   = "native"
	modeBrowser  = "browser"
	modeHeadless = "headless"
)

// resolveMode maps unknown modes to headless.
func resolveMode(mode string) string {
	switch mode {
	case modeNative, modeBrowser, modeHeadless:
		return mode
	}
	log.Warnw("unknown mode, falling back to headless", "mode", mode)
	return modeHeadless
}

// starter is swapped in tests so the native path never reaches a toolkit.
var starter = lifecycle.Start

func (c *cli) runApp(ctx context.Context, stderr io.Writer) int {
	d, err := c.descriptor(c.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return desktop.StatusConfig
	}

	mode := resolveMode(c.mode)
	if mode == modeNative {
		return starter(ctx, d)
	}

	lifecycle.ConfigureLogging(d.DevelopMode)
	cfg, err := config.New(d)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return desktop.StatusOf(err)
	}

	if mode == modeBrowser {
		err = browser.Open(ctx, browser.OptionsFor(cfg))
	} else {
		err = browser.Headless(ctx, cfg.URL())
	}
	if err != nil {
		log.Errorw("run failed", "mode", mode, "err", err)
		return desktop.StatusBackendInit
	}
	return desktop.StatusOK
}

func (c *cli) runInit(path string, stdout, stderr io.Writer) int {
	d, created, err := config.Ensure(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return desktop.StatusConfig
	}
	if !created {
		fmt.Fprintf(stdout, "Descriptor already exists: %s (%s)\n", path, d.Name)
		return desktop.StatusOK
	}

	// Flags given alongside init end up in the new file.
	c.apply(&d)
	if err := config.Save(path, d); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return desktop.StatusConfig
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return desktop.StatusOK
}

func (c *cli) target(path string, stderr io.Writer) (install.Target, bool) {
	d, err := c.descriptor(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return install.Target{}, false
	}
	cfg, err := config.New(d)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return install.Target{}, false
	}
	t, err := install.NewTarget(cfg, path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return install.Target{}, false
	}
	return t, true
}

func (c *cli) runInstall(path string, stdout, stderr io.Writer) int {
	t, ok := c.target(path, stderr)
	if !ok {
		return desktop.StatusConfig
	}
	written, err := install.Register(t)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return installStatus(err)
	}
	for _, p := range written {
		fmt.Fprintf(stdout, "Wrote %s\n", p)
	}
	return desktop.StatusOK
}

func (c *cli) runUninstall(path string, stdout, stderr io.Writer) int {
	t, ok := c.target(path, stderr)
	if !ok {
		return desktop.StatusConfig
	}
	if err := install.Unregister(t); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return installStatus(err)
	}
	fmt.Fprintf(stdout, "Removed %s\n", t.Config.BundleID())
	return desktop.StatusOK
}

func installStatus(err error) int {
	if errors.Is(err, install.ErrUnsupported) {
		return desktop.StatusConfig
	}
	return desktop.StatusBackendInit
}
