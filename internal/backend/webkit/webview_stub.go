//go:build !cgo

package webkit

import "errors"

func newEngine(debug bool) (engine, error) {
	return nil, errors.New("webview: built without cgo")
}
