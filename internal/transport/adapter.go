// Package transport owns the single long-lived bidirectional connection to
// the chat server: its lifecycle, the envelope codec, and the normalization
// of inbound events into one typed shape.
package transport

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"zap-chat/go-client/internal/metrics"
	"zap-chat/go-client/internal/platform/ratelimiter"
)

const (
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"
)

var ErrNotConnected = errors.New("transport is not connected")

// Conn is one live wire connection. The default implementation is a
// websocket; tests substitute an in-memory pipe.
type Conn interface {
	ReadEnvelope(ctx context.Context) (Envelope, error)
	WriteEnvelope(ctx context.Context, env Envelope) error
	Close() error
}

// Dialer opens a connection carrying token in the handshake.
type Dialer func(ctx context.Context, socketURL, token string) (Conn, error)

type Options struct {
	SocketURL    string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Dialer       Dialer
	Limiter      *ratelimiter.MapLimiter
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

type listener struct {
	generation uint64
	fn         func(Event)
}

// Adapter guarantees at most one live connection per process. Connect is
// idempotent; Disconnect tears everything down, including every registered
// listener — a listener never fires across a reconnect.
type Adapter struct {
	mu         sync.Mutex
	opts       Options
	state      string
	conn       Conn
	generation uint64
	listeners  []listener

	readCancel context.CancelFunc
	readWG     sync.WaitGroup

	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewAdapter(opts Options) *Adapter {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Dialer == nil {
		opts.Dialer = DialWebsocket
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.Nop()
	}
	return &Adapter{
		opts:    opts,
		state:   StateDisconnected,
		logger:  logger,
		metrics: m,
	}
}

func (a *Adapter) State() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Connect opens the connection if none is live and returns nil if one
// already is (connected or still connecting), mirroring connect-or-reuse.
func (a *Adapter) Connect(ctx context.Context, token string) error {
	a.mu.Lock()
	if a.state != StateDisconnected {
		a.mu.Unlock()
		return nil
	}
	a.state = StateConnecting
	gen := a.generation
	a.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, a.opts.DialTimeout)
	conn, err := a.opts.Dialer(dialCtx, a.opts.SocketURL, token)
	cancel()

	a.mu.Lock()
	if a.generation != gen {
		// Disconnect raced the dial; the new connection is unwanted.
		a.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return nil
	}
	if err != nil {
		a.state = StateDisconnected
		a.mu.Unlock()
		return err
	}
	a.conn = conn
	a.state = StateConnected
	readCtx, readCancel := context.WithCancel(context.Background())
	a.readCancel = readCancel
	a.readWG.Add(1)
	a.mu.Unlock()

	a.logger.Info("transport connected", "component", "transport", "operation", "connect")
	go a.readLoop(readCtx, conn, gen)
	return nil
}

// Disconnect tears down the connection and clears adapter state so a
// subsequent Connect always creates a fresh one. All listeners registered
// against the old connection are invalidated.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	conn := a.conn
	cancel := a.readCancel
	a.conn = nil
	a.readCancel = nil
	a.state = StateDisconnected
	a.generation++
	a.listeners = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	a.readWG.Wait()
	a.logger.Info("transport disconnected", "component", "transport", "operation", "disconnect")
}

// OnEvent registers a listener for normalized inbound events. The
// registration dies with the current connection generation.
func (a *Adapter) OnEvent(fn func(Event)) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, listener{generation: a.generation, fn: fn})
}

func (a *Adapter) readLoop(ctx context.Context, conn Conn, gen uint64) {
	defer a.readWG.Done()
	for {
		env, err := conn.ReadEnvelope(ctx)
		if errors.Is(err, ErrBadFrame) {
			a.metrics.MalformedEvents.Inc()
			continue
		}
		if err != nil {
			a.handleReadFailure(gen)
			return
		}
		event, err := DecodeInbound(env)
		if err != nil {
			a.metrics.MalformedEvents.Inc()
			a.logger.Debug("dropping inbound event",
				"component", "transport", "operation", "read", "event", env.Event, "error", err.Error())
			continue
		}
		a.dispatch(event, gen)
	}
}

func (a *Adapter) dispatch(event Event, gen uint64) {
	a.mu.Lock()
	if a.generation != gen {
		a.mu.Unlock()
		return
	}
	targets := make([]func(Event), 0, len(a.listeners))
	for _, l := range a.listeners {
		if l.generation == gen {
			targets = append(targets, l.fn)
		}
	}
	a.mu.Unlock()

	for _, fn := range targets {
		fn(event)
	}
}

// handleReadFailure marks the adapter disconnected when the wire drops out
// from under us. Same teardown as Disconnect: stale listeners die with the
// generation.
func (a *Adapter) handleReadFailure(gen uint64) {
	a.mu.Lock()
	if a.generation != gen {
		a.mu.Unlock()
		return
	}
	conn := a.conn
	a.conn = nil
	a.readCancel = nil
	a.state = StateDisconnected
	a.generation++
	a.listeners = nil
	a.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	a.logger.Warn("transport connection lost", "component", "transport", "operation", "read")
}

// Emit writes one envelope, fire-and-forget. With no live connection the
// event is dropped, never queued. A per-event-kind rate limit guards against
// runaway emit loops.
func (a *Adapter) Emit(event string, payload any) error {
	a.mu.Lock()
	conn := a.conn
	connected := a.state == StateConnected
	a.mu.Unlock()

	if !connected || conn == nil {
		a.metrics.EmitsDropped.WithLabelValues(metrics.DropReasonNotConnected).Inc()
		return ErrNotConnected
	}
	if !a.opts.Limiter.Allow(event, time.Now()) {
		a.metrics.EmitsDropped.WithLabelValues(metrics.DropReasonRateLimited).Inc()
		a.logger.Debug("emit rate limited", "component", "transport", "operation", "emit", "event", event)
		return nil
	}

	env := Envelope{Event: event}
	if payload != nil {
		data, err := encodePayload(payload)
		if err != nil {
			return err
		}
		env.Data = data
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.opts.WriteTimeout)
	defer cancel()
	if err := conn.WriteEnvelope(ctx, env); err != nil {
		a.logger.Warn("emit failed", "component", "transport", "operation", "emit", "event", event, "error", err.Error())
		return err
	}
	return nil
}
