// Package reload watches content files in developer mode and reports
// settled changes so the web view can be reloaded.
package reload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("deskview/reload")

// DefaultDelay is the quiet period after the last event before onChange runs.
const DefaultDelay = 250 * time.Millisecond

// Watcher debounces file system events over a set of files and directories.
// Directories are watched non-recursively. Files are watched through their
// parent directory so editors that replace files on save keep working.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dirs     map[string]bool // watched as a whole
	files    map[string]bool // watched by name inside the parent
	delay    time.Duration
	onChange func()

	mu     sync.Mutex
	timer  *time.Timer
	closed chan struct{}
	once   sync.Once
	done   chan struct{}
}

// New starts watching paths. onChange runs on a watcher goroutine and must
// not touch toolkit objects directly.
func New(paths []string, delay time.Duration, onChange func()) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		dirs:     make(map[string]bool),
		files:    make(map[string]bool),
		delay:    delay,
		onChange: onChange,
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	added := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		st, err := os.Stat(abs)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}

		target := abs
		if st.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
			target = filepath.Dir(abs)
		}
		if added[target] {
			continue
		}
		if err := fw.Add(target); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", target, err)
		}
		added[target] = true
	}

	go w.loop()

	log.Debugw("watching", "dirs", len(w.dirs), "files", len(w.files), "delay", delay)
	return w, nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, ".#") {
		return false
	}
	if w.files[ev.Name] {
		return true
	}
	return w.dirs[filepath.Dir(ev.Name)]
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.closed:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debugw("change", "path", ev.Name, "op", ev.Op.String())
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	select {
	case <-w.closed:
		return
	default:
	}
	w.onChange()
}

// Close stops the watcher. Pending changes are dropped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closed)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
		<-w.done
	})
	return err
}
