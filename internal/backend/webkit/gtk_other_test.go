//go:build !(linux && cgo)

package webkit

import (
	"testing"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
)

func TestNoopTunerReportsUnsupported(t *testing.T) {
	var tn noopTuner
	got := tn.Window(nil, desktop.WindowSpec{Icon: "x", Display: config.DisplayFullScreen})
	for _, k := range []string{KnobIcon, KnobDecorated, KnobDisplay} {
		if !contains(got, k) {
			t.Fatalf("%s not reported: %v", k, got)
		}
	}
	if got := tn.Window(nil, desktop.WindowSpec{Decorated: true}); len(got) != 0 {
		t.Fatalf("plain window reported %v", got)
	}

	s := tn.Settings(nil, desktop.WebSettings{ApplicationName: "a", ConsoleToStdout: true})
	if !contains(s, KnobConsole) || !contains(s, KnobUserAgent) {
		t.Fatalf("settings reported %v", s)
	}
	if !contains(tn.QuitAccelerator(nil), KnobAccelerator) {
		t.Fatal("quit accelerator not reported")
	}
}
