//go:build wails

// Package backend links exactly one desktop.Backend into the binary. The
// default is webkit; build with -tags wails for the wails backend.
package backend

import (
	"github.com/petervdpas/deskview/internal/backend/wailsview"
	"github.com/petervdpas/deskview/internal/desktop"
)

func New() desktop.Backend { return wailsview.New() }
