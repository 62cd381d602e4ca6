// Package savewatch verifies save files as they appear in a save directory.
//
// A Monitor watches the directory with fsnotify, waits for a file to settle,
// then fully decodes it and reports the result. It is used by the watch
// command to catch saves written by other tools or damaged by sync clients.
package savewatch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/storage/backup"
	"github.com/yndnr/stellar-save/internal/storage/fsys"
	"github.com/yndnr/stellar-save/internal/storage/savefile"
	"github.com/yndnr/stellar-save/internal/telemetry/logger"
	"github.com/yndnr/stellar-save/internal/telemetry/metric"
)

// DefaultSettle is how long a file must be quiet before it is verified.
const DefaultSettle = 200 * time.Millisecond

// Event is the verification result of one save file.
type Event struct {
	Slot     string
	Path     string
	Backup   int // zero for a primary save
	Metadata *domain.SaveMetadata
	Err      error
}

// Monitor verifies saves written to one directory.
type Monitor struct {
	dir     string
	watcher *fsnotify.Watcher
	reader  *savefile.Reader
	logger  logger.Logger
	metrics *metric.Registry
	settle  time.Duration
	backups bool

	mu        sync.Mutex
	pending   map[string]*time.Timer
	callbacks []func(Event)

	done chan struct{}
	wg   sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// WithMetrics records watch events on r.
func WithMetrics(r *metric.Registry) Option {
	return func(m *Monitor) { m.metrics = r }
}

// WithSettle sets the quiet period before a file is verified.
func WithSettle(d time.Duration) Option {
	return func(m *Monitor) { m.settle = d }
}

// WithBackups also verifies backup files.
func WithBackups(enabled bool) Option {
	return func(m *Monitor) { m.backups = enabled }
}

// New creates a monitor for dir. The directory must exist.
func New(dir string, filesystem fsys.FS, opts ...Option) (*Monitor, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, domain.ErrDirectory.WithDetails(dir).WithCause(err)
	}

	m := &Monitor{
		dir:     dir,
		watcher: w,
		reader:  savefile.NewReader(filesystem),
		logger:  logger.Default(),
		settle:  DefaultSettle,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// OnEvent registers a callback for every verified file.
// Callbacks run on timer goroutines and must not block.
func (m *Monitor) OnEvent(cb func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Start processes events until Stop is called.
func (m *Monitor) Start() {
	m.logger.Info("save monitor started", "dir", m.dir)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				m.schedule(event.Name)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Error("save monitor error", logger.Err(err))
		case <-m.done:
			return
		}
	}
}

// StartAsync runs Start in a goroutine.
func (m *Monitor) StartAsync() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.Start()
	}()
}

// Stop stops the monitor and cancels pending verifications.
func (m *Monitor) Stop() error {
	close(m.done)
	err := m.watcher.Close()
	m.wg.Wait()

	m.mu.Lock()
	for path, t := range m.pending {
		t.Stop()
		delete(m.pending, path)
	}
	m.mu.Unlock()

	m.logger.Info("save monitor stopped")
	return err
}

// schedule verifies path once it has been quiet for the settle period.
func (m *Monitor) schedule(path string) {
	slot, kind, index := backup.Parse(filepath.Base(path))
	switch {
	case kind == backup.KindSave:
	case kind == backup.KindBackup && m.backups:
	default:
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.pending[path]; ok {
		t.Reset(m.settle)
		return
	}
	m.pending[path] = time.AfterFunc(m.settle, func() {
		m.mu.Lock()
		delete(m.pending, path)
		m.mu.Unlock()
		m.verify(Event{Slot: slot, Path: path, Backup: index})
	})
}

func (m *Monitor) verify(ev Event) {
	res, err := m.reader.Read(ev.Path)
	switch {
	case err == nil:
		ev.Metadata = &res.Metadata
		m.logger.Info("save verified", logger.Slot(ev.Slot), logger.Path(ev.Path), logger.SaveID(res.Metadata.SaveID), logger.Tick(res.Metadata.Tick))
	case domain.IsDomainError(err, domain.ErrSaveNotFound.Code):
		// Renamed or deleted before it settled.
		return
	default:
		ev.Err = err
		m.logger.Warn("save failed verification", logger.Slot(ev.Slot), logger.Path(ev.Path), logger.Err(err))
	}
	m.metrics.WatchEvent(ev.Err)

	m.mu.Lock()
	callbacks := append([]func(Event){}, m.callbacks...)
	m.mu.Unlock()
	for _, cb := range callbacks {
		cb(ev)
	}
}
