//go:build dev || debug

package wailsview

// Wails enables its developer tools by build tag, not by option.
var buildTooling = tooling{devtools: true, inspector: true}
