package desktop

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/petervdpas/deskview/internal/config"
)

// State is a step of the run lifecycle. Transitions only move forward.
type State int

const (
	Uninitialized State = iota
	Started
	Activated
	Running
	ShuttingDown
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Started:
		return "started"
	case Activated:
		return "activated"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// The native toolkits keep their own application singleton, so only one
// Runtime may hold an application per process.
var appGuard atomic.Bool

// Runtime aggregates the live application, window and view of one run.
// It is owned by the UI thread; only Quit and Reload may be called elsewhere.
type Runtime struct {
	ID string

	cfg     config.AppConfig
	backend Backend

	mu    sync.Mutex
	state State
	owns  bool

	app  Application
	win  Window
	view View

	teardown sync.Once
}

func NewRuntime(cfg config.AppConfig, b Backend) *Runtime {
	return &Runtime{
		ID:      uuid.NewString(),
		cfg:     cfg,
		backend: b,
	}
}

func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runtime) Application() Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.app
}

func (r *Runtime) Window() Window { return r.win }

func (r *Runtime) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

func (r *Runtime) Backend() Backend { return r.backend }

// advance moves to the next state. ShuttingDown may be entered from any
// state after Started; everything else must be the immediate successor.
func (r *Runtime) advance(to State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	from := r.state
	ok := to == from+1
	if to == ShuttingDown && from >= Started && from < ShuttingDown {
		ok = true
	}
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	r.state = to
	return nil
}

// Start acquires the process-wide application guard and creates the
// application. The quit action registered with the backend calls r.Quit.
func (r *Runtime) Start() error {
	if r.State() != Uninitialized {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, r.State())
	}
	if !appGuard.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	r.owns = true

	app, err := r.backend.CreateApplication(r.cfg, r.Quit)
	if err != nil {
		r.release()
		return fmt.Errorf("create application: %w", err)
	}
	r.mu.Lock()
	r.app = app
	r.mu.Unlock()
	return r.advance(Started)
}

// Activate creates the window and its web view, configures the view and
// starts loading the content.
func (r *Runtime) Activate() error {
	if r.State() != Started {
		return fmt.Errorf("%w: activate from %s", ErrInvalidTransition, r.State())
	}

	win, err := r.backend.CreateWindow(r.cfg, r.app)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	r.win = win

	view, err := r.backend.CreateWebView(win, r.cfg)
	if err != nil {
		return fmt.Errorf("create web view: %w", err)
	}
	r.mu.Lock()
	r.view = view
	r.mu.Unlock()

	if err := r.backend.ConfigureWebView(view, r.cfg); err != nil {
		return fmt.Errorf("configure web view: %w", err)
	}
	if err := r.backend.LoadAndPresent(view, win, r.cfg); err != nil {
		return fmt.Errorf("load and present: %w", err)
	}
	return r.advance(Activated)
}

// Run blocks in the native event loop.
func (r *Runtime) Run() (int, error) {
	if err := r.advance(Running); err != nil {
		return StatusBackendInit, err
	}
	status := r.backend.Run(r.app)
	if err := r.advance(ShuttingDown); err != nil {
		return status, err
	}
	return status, nil
}

// Quit asks the toolkit to leave its event loop. It is a no-op before the
// application exists and after teardown.
func (r *Runtime) Quit() {
	r.mu.Lock()
	app, state := r.app, r.state
	r.mu.Unlock()

	if app == nil || state >= Terminated {
		return
	}
	app.Quit()
}

// Reload reloads the page if the backend supports it.
func (r *Runtime) Reload() bool {
	rl, ok := r.backend.(Reloader)
	if !ok {
		return false
	}

	r.mu.Lock()
	view, state := r.view, r.state
	r.mu.Unlock()

	if view == nil || state != Running {
		return false
	}
	rl.Reload(view)
	return true
}

// Teardown releases the application and the process guard. Only the first
// call has an effect.
func (r *Runtime) Teardown() {
	r.teardown.Do(func() {
		if r.State() >= Started {
			_ = r.advance(ShuttingDown)
		}
		if r.app != nil {
			r.backend.Teardown(r.app)
		}

		r.mu.Lock()
		r.state = Terminated
		r.mu.Unlock()

		r.release()
	})
}

func (r *Runtime) release() {
	if r.owns {
		r.owns = false
		appGuard.Store(false)
	}
}
