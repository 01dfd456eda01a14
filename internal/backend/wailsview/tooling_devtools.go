//go:build devtools && !(dev || debug)

package wailsview

// Production build with devtools: the inspector is reachable but does not
// open on startup.
var buildTooling = tooling{devtools: true}
