// Package ftp implements an RFC 959 FTP server adapter: a per-session
// control-channel state machine, active and passive data channels, and a
// chroot-style path sandbox under a configured root directory.
package ftp

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marmos91/ftpd/internal/logger"
	"github.com/marmos91/ftpd/pkg/auth"
	"github.com/marmos91/ftpd/pkg/metrics"
)

// Adapter is the FTP protocol server.
//
// The adapter manages the control-channel listener and session lifecycle.
// Each accepted connection runs a session goroutine owning its control
// socket, data channel, and file handles. Shutdown flow:
//
//  1. Context cancelled or Stop() called
//  2. Listener closed (no new sessions)
//  3. Pending control reads interrupted via short deadlines
//  4. Wait for sessions up to Timeouts.Shutdown
//  5. Force-close remaining control sockets
//
// All methods are safe for concurrent use; shutdown is idempotent.
type Adapter struct {
	config Config

	authenticator auth.Authenticator
	metrics       metrics.FTPMetrics
	events        EventSink

	listener      net.Listener
	listenerMu    sync.RWMutex
	listenerReady chan struct{}

	// activeSessions tracks live sessions for graceful shutdown, keyed by
	// session ID.
	activeSessions sync.Map
	sessionWG      sync.WaitGroup
	sessionCount   atomic.Int32

	// connSemaphore limits concurrent sessions when MaxConnections > 0.
	connSemaphore chan struct{}

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// Option customizes an Adapter beyond its Config.
type Option func(*Adapter)

// WithAuthenticator replaces the default admin/password credentials.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(ad *Adapter) { ad.authenticator = a }
}

// WithMetrics enables metrics collection. A nil value keeps metrics
// disabled.
func WithMetrics(m metrics.FTPMetrics) Option {
	return func(ad *Adapter) { ad.metrics = m }
}

// WithEventSink subscribes a sink to session events.
func WithEventSink(s EventSink) Option {
	return func(ad *Adapter) { ad.events = s }
}

// New creates a new FTP adapter with the given configuration.
//
// Zero config values are replaced with defaults; an invalid configuration
// returns an error. The root directory is created if absent. The adapter
// starts serving on Serve().
func New(config Config, opts ...Option) (*Adapter, error) {
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid FTP config: %w", err)
	}

	if err := os.MkdirAll(config.RootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create root directory %s: %w", config.RootPath, err)
	}

	a := &Adapter{
		config:        config,
		authenticator: auth.Default(),
		listenerReady: make(chan struct{}),
		shutdown:      make(chan struct{}),
	}
	if config.MaxConnections > 0 {
		a.connSemaphore = make(chan struct{}, config.MaxConnections)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Serve starts the FTP server and blocks until the context is cancelled
// or an unrecoverable error occurs. Returns nil on graceful shutdown.
func (a *Adapter) Serve(ctx context.Context) error {
	listenAddr := fmt.Sprintf("%s:%d", a.config.BindAddress, a.config.Port)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("failed to create FTP listener on port %d: %w", a.config.Port, err)
	}

	a.listenerMu.Lock()
	a.listener = listener
	a.listenerMu.Unlock()
	close(a.listenerReady)

	logger.Info("FTP server listening", "port", a.config.Port, "root", a.config.RootPath)
	logger.Debug("FTP config",
		"max_connections", a.config.MaxConnections,
		"idle_timeout", a.config.Timeouts.Idle,
		"data_setup_timeout", a.config.Timeouts.DataSetup)

	go func() {
		<-ctx.Done()
		logger.Info("FTP shutdown signal received", "error", ctx.Err())
		a.initiateShutdown()
	}()

	for {
		if a.connSemaphore != nil {
			select {
			case a.connSemaphore <- struct{}{}:
			case <-a.shutdown:
				return a.gracefulShutdown()
			}
		}

		conn, err := listener.Accept()
		if err != nil {
			if a.connSemaphore != nil {
				<-a.connSemaphore
			}
			select {
			case <-a.shutdown:
				return a.gracefulShutdown()
			default:
				logger.Debug("Error accepting FTP connection", "error", err)
				continue
			}
		}

		a.startSession(conn)
	}
}

// startSession registers and launches one session goroutine for conn.
func (a *Adapter) startSession(conn net.Conn) {
	sess := newSession(conn, &a.config, a.authenticator, a.metrics, a.events)

	a.sessionWG.Add(1)
	count := a.sessionCount.Add(1)
	a.activeSessions.Store(sess.id, sess)

	if a.metrics != nil {
		a.metrics.RecordSessionOpened()
		a.metrics.SetActiveSessions(count)
	}
	logger.Debug("FTP connection accepted", "address", conn.RemoteAddr(), "active", count)

	go func() {
		defer func() {
			a.activeSessions.Delete(sess.id)
			remaining := a.sessionCount.Add(-1)
			a.sessionWG.Done()
			if a.connSemaphore != nil {
				<-a.connSemaphore
			}
			if a.metrics != nil {
				a.metrics.RecordSessionClosed()
				a.metrics.SetActiveSessions(remaining)
			}
			logger.Debug("FTP connection closed", "address", conn.RemoteAddr(), "active", remaining)
		}()

		sess.run()
	}()
}

// initiateShutdown stops the accept loop and interrupts pending control
// reads so session loops notice quickly. Safe to call multiple times.
func (a *Adapter) initiateShutdown() {
	a.shutdownOnce.Do(func() {
		logger.Debug("FTP shutdown initiated")

		close(a.shutdown)

		a.listenerMu.Lock()
		if a.listener != nil {
			if err := a.listener.Close(); err != nil {
				logger.Debug("Error closing FTP listener", "error", err)
			}
		}
		a.listenerMu.Unlock()

		deadline := time.Now().Add(100 * time.Millisecond)
		a.activeSessions.Range(func(_, value any) bool {
			if sess, ok := value.(*session); ok {
				_ = sess.conn.SetReadDeadline(deadline)
			}
			return true
		})
	})
}

// gracefulShutdown waits for live sessions to finish, then force-closes
// whatever is left after the configured timeout.
func (a *Adapter) gracefulShutdown() error {
	active := a.sessionCount.Load()
	logger.Info("FTP graceful shutdown: waiting for active sessions",
		"active", active, "timeout", a.config.Timeouts.Shutdown)

	done := make(chan struct{})
	go func() {
		a.sessionWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("FTP graceful shutdown complete: all sessions closed")
		return nil

	case <-time.After(a.config.Timeouts.Shutdown):
		remaining := a.sessionCount.Load()
		logger.Warn("FTP shutdown timeout exceeded - forcing closure", "active", remaining)
		a.forceCloseSessions()
		return fmt.Errorf("FTP shutdown timeout: %d sessions force-closed", remaining)
	}
}

// forceCloseSessions closes the control sockets of all remaining sessions.
// Each session's run loop observes the closed socket and tears down its
// own data channel and file handles.
func (a *Adapter) forceCloseSessions() {
	a.activeSessions.Range(func(_, value any) bool {
		if sess, ok := value.(*session); ok {
			_ = sess.conn.Close()
		}
		return true
	})
}

// Stop initiates graceful shutdown. Safe to call multiple times and
// concurrently with Serve. A nil context falls back to the configured
// shutdown timeout.
func (a *Adapter) Stop(ctx context.Context) error {
	a.initiateShutdown()

	if ctx == nil {
		return a.gracefulShutdown()
	}

	done := make(chan struct{})
	go func() {
		a.sessionWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("FTP graceful shutdown complete: all sessions closed")
		return nil
	case <-ctx.Done():
		remaining := a.sessionCount.Load()
		logger.Warn("FTP shutdown context cancelled", "active", remaining, "error", ctx.Err())
		a.forceCloseSessions()
		return ctx.Err()
	}
}

// GetActiveSessions returns the current number of live sessions.
func (a *Adapter) GetActiveSessions() int32 {
	return a.sessionCount.Load()
}

// GetListenerAddr returns the address the server is listening on. Blocks
// until the listener is ready.
func (a *Adapter) GetListenerAddr() string {
	<-a.listenerReady

	a.listenerMu.RLock()
	defer a.listenerMu.RUnlock()

	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Port returns the configured control-channel port.
func (a *Adapter) Port() int {
	return a.config.Port
}

// Protocol returns "FTP".
func (a *Adapter) Protocol() string {
	return "FTP"
}
