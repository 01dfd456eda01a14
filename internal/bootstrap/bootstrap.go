// Package bootstrap holds the page scripts injected into every document
// before it runs. The scripts only talk to the host through named bindings.
package bootstrap

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

var log = logging.Logger("deskview/bootstrap")

// Names of the native functions the scripts call.
const (
	QuitBinding    = "__deskview_quit"
	ConsoleBinding = "__deskview_console"
)

//go:embed *.js
var rawFS embed.FS

var minified map[string]string

func init() {
	m := minify.New()
	m.AddFunc("application/javascript", js.Minify)

	minified = make(map[string]string)

	_ = fs.WalkDir(rawFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.ToLower(filepath.Ext(path)) != ".js" {
			return nil
		}
		raw, err := rawFS.ReadFile(path)
		if err != nil {
			return nil
		}
		out, err := m.Bytes("application/javascript", raw)
		if err != nil {
			log.Warnf("minify %s: %v (using original)", path, err)
			minified[path] = string(raw)
			return nil
		}
		minified[path] = string(out)
		return nil
	})
}

// Options selects the parts of the bootstrap script.
type Options struct {
	// QuitShortcut handles Ctrl/Cmd+Q in the page and calls QuitBinding.
	// Used where the toolkit has no native accelerator.
	QuitShortcut bool
	// ConsoleBridge forwards console.* calls to ConsoleBinding. Used when
	// the engine cannot write console messages to stdout itself.
	ConsoleBridge bool
}

// Script returns the script to run at document start, or "" when no part
// is selected.
func Script(opts Options) string {
	var parts []string
	if opts.QuitShortcut {
		parts = append(parts, minified["quit.js"])
	}
	if opts.ConsoleBridge {
		parts = append(parts, minified["console.js"])
	}
	return strings.Join(parts, "\n")
}
