// Command libdeskview builds the C entry point:
//
//	go build -buildmode=c-shared -o libdeskview.so ./cmd/libdeskview
package main

/*
#include <stdbool.h>
*/
import "C"

import (
	"context"
	"runtime"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/lifecycle"
)

// start_app runs the application on the calling thread and returns its exit
// status once the window closes. Strings are copied; the caller keeps
// ownership. vendor may be NULL.
//
//export start_app
func start_app(name, bundleID, icon, url, version *C.char,
	fullScreen, maximized, decorated C.bool,
	width, height C.int,
	developMode C.bool,
	vendor *C.char) C.int {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	d := config.Descriptor{
		Name:        goString(name),
		BundleID:    goString(bundleID),
		Icon:        goString(icon),
		Vendor:      goString(vendor),
		Version:     goString(version),
		URL:         goString(url),
		FullScreen:  bool(fullScreen),
		Maximized:   bool(maximized),
		Decorated:   bool(decorated),
		Width:       int(width),
		Height:      int(height),
		DevelopMode: bool(developMode),
	}
	return C.int(lifecycle.Start(context.Background(), d))
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func main() {}
