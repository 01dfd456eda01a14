package wailsview

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/petervdpas/deskview/internal/bootstrap"
)

// quitScript maps the page quit shortcut onto the wails JS runtime.
var quitScript = "window." + bootstrap.QuitBinding + "=function(){window.runtime&&window.runtime.Quit()};" +
	bootstrap.Script(bootstrap.Options{QuitShortcut: true})

// injectScript adds script to every HTML document next handles.
func injectScript(next http.Handler, script string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		// Compressed bodies cannot be rewritten.
		r.Header.Del("Accept-Encoding")
		iw := &injectWriter{ResponseWriter: w, script: script}
		next.ServeHTTP(iw, r)
		iw.finish()
	})
}

type injectWriter struct {
	http.ResponseWriter
	script string

	wrote  bool
	status int
	buf    *bytes.Buffer // set while an HTML body is being held back
}

func (w *injectWriter) WriteHeader(code int) {
	if w.wrote {
		return
	}
	w.wrote = true
	h := w.Header()
	if strings.HasPrefix(h.Get("Content-Type"), "text/html") && h.Get("Content-Encoding") == "" {
		w.status = code
		w.buf = new(bytes.Buffer)
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *injectWriter) Write(p []byte) (int, error) {
	if !w.wrote {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(p))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.buf != nil {
		return w.buf.Write(p)
	}
	return w.ResponseWriter.Write(p)
}

func (w *injectWriter) finish() {
	if w.buf == nil {
		return
	}
	body := insertScript(w.buf.Bytes(), w.script)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(body)
}

// insertScript places the script right after <head>, or first when the
// document has none.
func insertScript(doc []byte, script string) []byte {
	tag := []byte("<script>" + script + "</script>")
	lower := bytes.ToLower(doc)
	at := 0
	if i := bytes.Index(lower, []byte("<head")); i >= 0 {
		if j := bytes.IndexByte(lower[i:], '>'); j >= 0 {
			at = i + j + 1
		}
	}
	out := make([]byte, 0, len(doc)+len(tag))
	out = append(out, doc[:at]...)
	out = append(out, tag...)
	return append(out, doc[at:]...)
}
