//go:build !(dev || debug || devtools)

package wailsview

var buildTooling = tooling{}
