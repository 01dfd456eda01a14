//go:build cgo

package webkit

import (
	"errors"
	"reflect"
	"unsafe"

	webview "github.com/webview/webview_go"
)

type nativeEngine struct {
	webview.WebView
}

func (e nativeEngine) SetSize(w, h int, hint Hint) {
	var wh webview.Hint
	switch hint {
	case HintMin:
		wh = webview.HintMin
	case HintMax:
		wh = webview.HintMax
	case HintFixed:
		wh = webview.HintFixed
	default:
		wh = webview.HintNone
	}
	e.WebView.SetSize(w, h, wh)
}

// newEngine creates the window and its web view. debug enables the
// engine's developer tools.
func newEngine(debug bool) (engine, error) {
	w := webview.New(debug)
	if cHandle(w) == nil {
		return nil, errors.New("webview: create failed")
	}
	return nativeEngine{WebView: w}, nil
}

// cHandle returns the webview_t behind w. webview.New hands back a wrapper
// even when webview_create returned NULL, and every method call on such a
// wrapper crashes. The wrapper is a pointer to a struct whose first field
// is that handle.
func cHandle(w any) unsafe.Pointer {
	v := reflect.ValueOf(w)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct || v.Elem().NumField() == 0 {
		return nil
	}
	return *(*unsafe.Pointer)(v.UnsafePointer())
}
