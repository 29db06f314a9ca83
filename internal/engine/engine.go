// Package engine implements the plugin<->FSM protocol engine: the Unix
// socket lifecycle, the correlation-id pending table, the frame reader
// and writer, and the request dispatcher that routes inbound FSM
// requests into the registered Contract. It is the only thing in the
// process that touches the socket.
package engine

import (
	"bufio"
	"context"
	"errors"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chainkit/sendplugin/internal/contract"
	"github.com/chainkit/sendplugin/internal/obslog"
	"github.com/chainkit/sendplugin/internal/protocol/session"
	"github.com/chainkit/sendplugin/internal/ptypes"
)

// DefaultHandshakeSentinelID is the fixed correlation id the handshake's
// PluginConfig exchange uses.
const DefaultHandshakeSentinelID = 999

// Config describes how to reach the FSM and the reliability knobs the
// reconnect loop and sendSync calls use.
type Config struct {
	ChainID             uint64
	SocketPath          string
	Session             session.Config
	HandshakeSentinelID uint64
}

func (c Config) withDefaults() Config {
	if c.HandshakeSentinelID == 0 {
		c.HandshakeSentinelID = DefaultHandshakeSentinelID
	}
	return c
}

type pendingResult struct {
	env *ptypes.Envelope
	err *ptypes.ProtoError
}

// Engine owns the socket, the outbound writer, the inbound parser, the
// pending-requests table, and the reconnect loop. It implements
// contract.StateClient so the registered Contract can issue nested state
// reads/writes through the same connection.
type Engine struct {
	cfg Config
	rng *rand.Rand

	stateMu sync.RWMutex
	state   ConnState
	conn    net.Conn

	pendingMu sync.Mutex
	pending   map[uint64]chan pendingResult

	writeMu sync.Mutex
	nextID  atomic.Uint64

	closeOnce sync.Once
	closeCh   chan struct{}
	doneCh    chan struct{}

	lastReconnectAt atomic.Value // time.Time
}

var _ contract.StateClient = (*Engine)(nil)

func New(cfg Config) *Engine {
	return &Engine{
		cfg:     cfg.withDefaults(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		pending: make(map[uint64]chan pendingResult),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start launches the connect/handshake/reconnect loop in the background
// and returns immediately; it never fails the plugin on connect error,
// only logs and retries.
func (e *Engine) Start(ctx context.Context) {
	e.setState(StateConnecting)
	go e.connectLoop(ctx)
}

// Close requests an orderly shutdown: the connect loop stops retrying,
// the active connection (if any) is closed, every pending request is
// failed, and Close waits up to 100ms for the loop to exit.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.setState(StateClosing)
		close(e.closeCh)
		e.stateMu.RLock()
		conn := e.conn
		e.stateMu.RUnlock()
		if conn != nil {
			_ = conn.Close()
		}
	})
	select {
	case <-e.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
	e.setState(StateClosed)
	return nil
}

func (e *Engine) connectLoop(ctx context.Context) {
	defer close(e.doneCh)
	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.closeCh:
			return
		default:
		}

		e.setState(StateConnecting)
		attempt++
		conn, err := e.dial(ctx)
		if err != nil {
			log.Warn().Err(err).Str("socket", e.cfg.SocketPath).Int("attempt", attempt).Msg("engine: dial failed")
			if !e.sleepBackoff(ctx, attempt) {
				return
			}
			continue
		}

		e.setConn(conn)
		e.setState(StateConnected)
		connDone := make(chan struct{})
		go e.readLoop(conn, connDone)

		e.setState(StateHandshaking)
		if err := e.handshake(ctx); err != nil {
			log.Warn().Err(err).Msg("engine: handshake failed")
			_ = conn.Close()
			<-connDone
			e.clearConn()
			if !e.sleepBackoff(ctx, attempt) {
				return
			}
			continue
		}

		e.setState(StateReady)
		attempt = 0
		obslog.RecordReconnect()
		e.lastReconnectAt.Store(time.Now())

		<-connDone
		e.failAllPending(ptypes.NewReadError(errors.New("fsm connection lost")))
		e.clearConn()

		select {
		case <-e.closeCh:
			return
		case <-ctx.Done():
			return
		default:
		}
		e.setState(StateReconnectBackoff)
	}
}

func (e *Engine) dial(ctx context.Context) (net.Conn, error) {
	addr := &net.UnixAddr{Name: e.cfg.SocketPath, Net: "unix"}
	dialer := net.Dialer{Timeout: e.cfg.Session.ConnectTimeout}
	dialCtx, cancel := context.WithTimeout(ctx, e.cfg.Session.ConnectTimeout)
	defer cancel()
	return dialer.DialContext(dialCtx, addr.Net, addr.String())
}

func (e *Engine) sleepBackoff(ctx context.Context, attempt int) bool {
	e.setState(StateReconnectBackoff)
	delay := session.NextBackoffDelay(e.cfg.Session.Backoff, attempt, e.rng)
	if delay <= 0 {
		delay = e.cfg.Session.ReconnectInterval
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-e.closeCh:
		return false
	case <-timer.C:
		return true
	}
}

func (e *Engine) handshake(ctx context.Context) error {
	req := &ptypes.Envelope{
		ID:   e.cfg.HandshakeSentinelID,
		Kind: ptypes.KindConfigPayload,
		Config: &ptypes.PluginConfig{
			Name:                  contract.ContractName,
			ID:                    1,
			Version:               1,
			SupportedTransactions: contract.Names(),
		},
	}
	resp, protoErr := e.sendSync(ctx, req, e.cfg.Session.HandshakeTimeout)
	if protoErr != nil {
		return protoErr
	}
	if resp.Kind != ptypes.KindConfigPayload {
		return ptypes.NewInvalidFSMToPluginError(resp.Kind.String())
	}
	return nil
}

func (e *Engine) setState(s ConnState) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
}

func (e *Engine) State() ConnState {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

func (e *Engine) setConn(c net.Conn) {
	e.stateMu.Lock()
	e.conn = c
	e.stateMu.Unlock()
}

func (e *Engine) clearConn() {
	e.stateMu.Lock()
	e.conn = nil
	e.stateMu.Unlock()
}

func (e *Engine) currentConn() net.Conn {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.conn
}

// Snapshot reports the connection state and outstanding request count for
// the diagnostics server's /status handler.
type Snapshot struct {
	State           string
	PendingRequests int
	LastReconnectAt time.Time
}

func (e *Engine) Snapshot() Snapshot {
	e.pendingMu.Lock()
	n := len(e.pending)
	e.pendingMu.Unlock()
	var last time.Time
	if v, ok := e.lastReconnectAt.Load().(time.Time); ok {
		last = v
	}
	return Snapshot{State: e.State().String(), PendingRequests: n, LastReconnectAt: last}
}

func newBufferedReader(conn net.Conn) *bufio.Reader {
	return bufio.NewReader(conn)
}
