package webkit

import (
	"unsafe"

	"github.com/petervdpas/deskview/internal/desktop"
)

// Hint mirrors the webview size hints.
type Hint int

const (
	HintNone Hint = iota
	HintMin
	HintMax
	HintFixed
)

// engine is the part of webview.WebView the backend uses.
type engine interface {
	Run()
	Terminate()
	Dispatch(f func())
	Destroy()
	Window() unsafe.Pointer
	SetTitle(title string)
	SetSize(w, h int, hint Hint)
	Navigate(url string)
	Init(js string)
	Eval(js string)
	Bind(name string, f any) error
}

// Knobs a tuner may report as unsupported on the current platform.
const (
	KnobProgramName = "program-name"
	KnobIcon        = "icon"
	KnobDecorated   = "decorated"
	KnobDisplay     = "display-mode"
	KnobUserAgent   = "user-agent"
	KnobClipboard   = "clipboard"
	KnobStorage     = "local-storage"
	KnobConsole     = "console-to-stdout"
	KnobInspector   = "inspector"
	KnobAccelerator = "quit-accelerator"
)

// tuner applies what webview itself does not expose, working on the native
// window handle. Each method returns the knobs it could not apply.
type tuner interface {
	// Prepare runs before the web view is created.
	Prepare(programName string) ([]string, error)
	Window(handle unsafe.Pointer, spec desktop.WindowSpec) []string
	Settings(handle unsafe.Pointer, s desktop.WebSettings) []string
	Present(handle unsafe.Pointer, showInspector bool) []string
	// QuitAccelerator binds Ctrl+Q on the window to leaving the event loop.
	QuitAccelerator(handle unsafe.Pointer) []string
}

func contains(knobs []string, knob string) bool {
	for _, k := range knobs {
		if k == knob {
			return true
		}
	}
	return false
}
