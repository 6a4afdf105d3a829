package session

import (
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// rcWatcher reloads the startup script when it changes on disk. It
// watches the script's directory, since editors often save by renaming a
// new file over the old one.
type rcWatcher struct {
	w       *fsnotify.Watcher
	log     *slog.Logger
	path    string
	post    func()
	pending atomic.Bool

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatchRC starts reloading the startup script whenever it changes. The
// reloads run on the editor thread through the dispatcher's Scheduler.
func (s *Session) WatchRC() error {
	if s.closed {
		return ErrClosed
	}
	if s.rcPath == "" {
		return ErrNoRC
	}
	if s.watcher != nil {
		return nil
	}
	path, err := filepath.Abs(s.rcPath)
	if err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return err
	}

	rw := &rcWatcher{
		w:       fsw,
		log:     s.log,
		path:    path,
		closeCh: make(chan struct{}),
	}
	rw.post = func() {
		s.sched.Post(func() {
			rw.pending.Store(false)
			if s.closed {
				return
			}
			diff, err := s.Reload()
			if err != nil {
				s.log.Warn("startup script reload failed", "path", s.rcPath, "error", err)
				return
			}
			if diff != "" {
				s.message("Reloaded " + s.rcPath)
			}
		})
	}
	s.watcher = rw
	rw.closedWg.Add(1)
	go rw.processLoop()
	s.log.Debug("watching startup script", "path", path)
	return nil
}

func (rw *rcWatcher) processLoop() {
	defer rw.closedWg.Done()
	for {
		select {
		case <-rw.closeCh:
			return
		case ev, ok := <-rw.w.Events:
			if !ok {
				return
			}
			rw.handle(ev)
		case err, ok := <-rw.w.Errors:
			if !ok {
				return
			}
			rw.log.Warn("rc watcher error", "error", err)
		}
	}
}

// handle posts one reload for a burst of events on the script.
func (rw *rcWatcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != rw.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	if rw.pending.Swap(true) {
		return
	}
	rw.log.Debug("startup script changed", "path", rw.path, "op", ev.Op.String())
	rw.post()
}

func (rw *rcWatcher) close() error {
	close(rw.closeCh)
	rw.closedWg.Wait()
	return rw.w.Close()
}
