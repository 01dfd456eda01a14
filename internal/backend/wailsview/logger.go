package wailsview

import "github.com/wailsapp/wails/v2/pkg/logger"

var _ logger.Logger = wailsLogger{}

// wailsLogger routes wails' own log output to the deskview/wails logger.
type wailsLogger struct{}

func (wailsLogger) Print(message string) { log.Info(message) }
func (wailsLogger) Trace(message string) { log.Debug(message) }
func (wailsLogger) Debug(message string) { log.Debug(message) }
func (wailsLogger) Info(message string) { log.Info(message) }
func (wailsLogger) Warning(message string) { log.Warn(message) }
func (wailsLogger) Error(message string) { log.Error(message) }

// Fatal does not exit: the host process may have loaded deskview as a
// shared library.
func (wailsLogger) Fatal(message string) { log.Error(message) }
