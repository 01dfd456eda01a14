package desktop

import (
	"errors"
	"fmt"

	"github.com/petervdpas/deskview/internal/config"
)

// Exit statuses returned through the C entry point and the CLI.
const (
	StatusOK             = 0
	StatusBackendInit    = 1
	StatusConfig         = 2
	StatusAlreadyRunning = 3
	StatusPanic          = 70
)

var (
	ErrAlreadyRunning    = errors.New("desktop: application already running in this process")
	ErrInvalidTransition = errors.New("desktop: invalid lifecycle transition")
)

// BackendInitError reports a toolkit that could not start, e.g. no display.
// Status is the native status to hand back to the caller.
type BackendInitError struct {
	Backend string
	Status  int
	Err     error
}

func (e *BackendInitError) Error() string {
	return fmt.Sprintf("desktop: %s backend init: %v", e.Backend, e.Err)
}

func (e *BackendInitError) Unwrap() error { return e.Err }

// StatusOf maps a setup error to the exit status reported to the caller.
func StatusOf(err error) int {
	if err == nil {
		return StatusOK
	}
	var (
		ce  *config.ConfigError
		bie *BackendInitError
	)
	switch {
	case errors.As(err, &ce):
		return StatusConfig
	case errors.Is(err, ErrAlreadyRunning):
		return StatusAlreadyRunning
	case errors.As(err, &bie):
		if bie.Status != 0 {
			return bie.Status
		}
		return StatusBackendInit
	default:
		return StatusBackendInit
	}
}
