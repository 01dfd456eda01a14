//go:build !(linux && cgo)

package webkit

import (
	"unsafe"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
)

// noopTuner is used where webview runs on Cocoa or WebView2. Scripting,
// clipboard and storage are on by default there; the rest is reported.
type noopTuner struct{}

func newTuner() tuner { return noopTuner{} }

func (noopTuner) Prepare(programName string) ([]string, error) {
	if programName == "" {
		return nil, nil
	}
	return []string{KnobProgramName}, nil
}

func (noopTuner) Window(_ unsafe.Pointer, spec desktop.WindowSpec) []string {
	var out []string
	if spec.Icon != "" {
		out = append(out, KnobIcon)
	}
	if !spec.Decorated {
		out = append(out, KnobDecorated)
	}
	if spec.Display != config.DisplayNormal {
		out = append(out, KnobDisplay)
	}
	return out
}

func (noopTuner) Settings(_ unsafe.Pointer, s desktop.WebSettings) []string {
	var out []string
	if s.ApplicationDetails() != "" {
		out = append(out, KnobUserAgent)
	}
	if s.ConsoleToStdout {
		out = append(out, KnobConsole)
	}
	return out
}

func (noopTuner) Present(_ unsafe.Pointer, showInspector bool) []string {
	if showInspector {
		return []string{KnobInspector}
	}
	return nil
}

// QuitAccelerator is left to the bootstrap script.
func (noopTuner) QuitAccelerator(unsafe.Pointer) []string {
	return []string{KnobAccelerator}
}
