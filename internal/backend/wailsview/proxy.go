package wailsview

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"

	"github.com/petervdpas/deskview/internal/desktop"
)

// contentHandler serves the configured URL through the wails asset server.
// http(s) targets are reverse proxied with the application details added to
// the User-Agent; file targets are served from disk.
func contentHandler(raw string, s desktop.WebSettings) (http.Handler, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("content url: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		target := &url.URL{Scheme: u.Scheme, Host: u.Host}
		p := httputil.NewSingleHostReverseProxy(target)
		director := p.Director
		p.Director = func(r *http.Request) {
			director(r)
			r.Host = target.Host
			r.Header.Set("User-Agent", desktop.UserAgent(r.Header.Get("User-Agent"), s))
		}
		p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warnw("content unavailable", "url", target.String()+r.URL.Path, "err", err)
			w.WriteHeader(http.StatusBadGateway)
		}
		return withEntry(p, u.Path, u.RawQuery), nil

	case "file":
		root, entry := u.Path, "/"
		st, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("content url: %w", err)
		}
		if !st.IsDir() {
			root = filepath.Dir(u.Path)
			if base := filepath.Base(u.Path); base != "index.html" {
				entry = "/" + base
			}
		}
		return withEntry(http.FileServer(http.Dir(root)), entry, u.RawQuery), nil

	default:
		return nil, fmt.Errorf("content url: unsupported scheme %q", u.Scheme)
	}
}

// withEntry maps the asset server's start page "/" onto the configured path.
func withEntry(next http.Handler, path, query string) http.Handler {
	if path == "" || path == "/" {
		if query == "" {
			return next
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			next.ServeHTTP(w, r)
			return
		}
		r2 := r.Clone(r.Context())
		if path != "" {
			r2.URL.Path = path
		}
		if r2.URL.RawQuery == "" {
			r2.URL.RawQuery = query
		}
		next.ServeHTTP(w, r2)
	})
}
