package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"florafinder/internal/config"
	"florafinder/internal/logging"
)

// Daemon serves the HTTP API and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler http.Handler

	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	done     chan struct{} // closed when Serve returns
	stopped  chan struct{} // closed when Stop has drained requests and released the lock
	running  atomic.Bool
	started  time.Time
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Address      string
	LockFilePath string
	Uptime       time.Duration
}

// New constructs a daemon around handler.
func New(cfg *config.Config, handler http.Handler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || handler == nil {
		return nil, errors.New("daemon requires config and handler")
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		handler:  handler,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the lock, binds the listener, and begins serving in the
// background. Cancelling ctx shuts the server down.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another florafinder server is already running")
	}

	listener, err := net.Listen("tcp", d.cfg.Server.Bind)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}

	d.server = &http.Server{
		Handler:           d.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(d.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(d.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	d.listener = listener
	d.done = make(chan struct{})
	d.stopped = make(chan struct{})
	d.started = time.Now()
	d.running.Store(true)

	server, done := d.server, d.done
	go func() {
		err := server.Serve(listener)
		close(done)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("api server error", logging.Error(err))
			d.Stop()
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-done:
		}
	}()

	d.logger.Info("florafinder server started",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop shuts the server down within the configured grace period and
// releases the lock. It is safe to call more than once.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}

	grace := time.Duration(d.cfg.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("graceful shutdown incomplete", logging.Error(err))
		_ = d.server.Close()
	}
	<-d.done

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release server lock", logging.Error(err))
	}
	d.listener = nil
	d.running.Store(false)
	close(d.stopped)
	d.logger.Info("florafinder server stopped")
}

// Wait blocks until Stop has finished: in-flight requests are drained or the
// grace period expired, and the lock is released. It returns immediately if
// the daemon was never started.
func (d *Daemon) Wait() {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped != nil {
		<-stopped
	}
}

// Addr returns the bound listener address, or "" when not running.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Status reports runtime information.
func (d *Daemon) Status() Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
		Address:      d.Addr(),
	}
	if status.Running {
		d.mu.Lock()
		status.Uptime = time.Since(d.started)
		d.mu.Unlock()
	}
	return status
}
