package engine

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chainkit/sendplugin/internal/contract"
	"github.com/chainkit/sendplugin/internal/obslog"
	"github.com/chainkit/sendplugin/internal/protocol/frame"
	"github.com/chainkit/sendplugin/internal/ptypes"
)

// readLoop owns one connection's inbound half: it parses frames and hands
// each decoded Envelope to dispatch, until the connection errors or is
// closed, then it signals done.
func (e *Engine) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)
	defer conn.Close()

	br := newBufferedReader(conn)
	for {
		payload, err := frame.ReadFrame(br, frame.DefaultMaxPayloadBytes)
		if err != nil {
			log.Info().Err(err).Msg("engine: read loop exiting")
			return
		}
		env, err := ptypes.UnmarshalEnvelope(payload)
		if err != nil {
			log.Warn().Err(err).Msg("engine: dropping unparseable frame")
			continue
		}
		obslog.RecordFrameReceived(env.Kind.String())
		e.dispatch(env)
	}
}

// dispatch classifies an inbound Envelope: if its id matches a pending
// correlation it is a response, otherwise it is a new FSM request routed
// by payload kind.
func (e *Engine) dispatch(env *ptypes.Envelope) {
	e.pendingMu.Lock()
	ch, ok := e.pending[env.ID]
	if ok {
		delete(e.pending, env.ID)
	}
	n := len(e.pending)
	e.pendingMu.Unlock()
	obslog.SetPendingRequests(n)

	if ok {
		ch <- pendingResult{env: env}
		return
	}

	switch env.Kind {
	case ptypes.KindStateReadPayload, ptypes.KindStateWritePayload:
		log.Warn().Str("kind", env.Kind.String()).Uint64("id", env.ID).Msg("engine: dropping stateRead/stateWrite arriving as a request")
		return
	case ptypes.KindErrorPayload:
		log.Warn().Uint64("id", env.ID).Msg("engine: dropping unmatched error payload")
		return
	}

	go e.handleRequest(env)
}

// handleRequest services one inbound FSM request by invoking the
// registered Contract and writing back a reply carrying the same
// correlation id. A panic inside the handler is converted to the wire
// error shape rather than crashing the process.
func (e *Engine) handleRequest(req *ptypes.Envelope) {
	reply := &ptypes.Envelope{ID: req.ID, Kind: req.Kind}

	defer func() {
		if r := recover(); r != nil {
			reply.Kind = ptypes.KindErrorPayload
			reply.ErrMsg = ptypes.FromPanic(r)
		}
		if err := e.writeEnvelope(reply); err != nil {
			log.Warn().Err(err).Uint64("id", req.ID).Msg("engine: failed writing reply")
		}
	}()

	c, ok := contract.Get(contract.ContractName)
	if !ok {
		reply.Kind = ptypes.KindErrorPayload
		reply.ErrMsg = ptypes.NewUnexpectedFSMToPluginError(req.Kind.String())
		return
	}

	switch req.Kind {
	case ptypes.KindConfigPayload:
		reply.Config = &ptypes.PluginConfig{
			Name:                  contract.ContractName,
			ID:                    1,
			Version:               1,
			SupportedTransactions: contract.Names(),
		}
	case ptypes.KindGenesisPayload:
		reply.Genesis = c.Genesis(req.Genesis)
	case ptypes.KindBeginPayload:
		reply.Begin = c.BeginBlock(req.Begin)
	case ptypes.KindEndPayload:
		reply.End = c.EndBlock(req.End)
	case ptypes.KindCheckPayload:
		reply.Check = c.CheckTx(req.Check)
	case ptypes.KindDeliverPayload:
		reply.Deliver = c.DeliverTx(req.Deliver)
	default:
		reply.Kind = ptypes.KindErrorPayload
		reply.ErrMsg = ptypes.NewInvalidFSMToPluginError(req.Kind.String())
	}
}

// sendSync installs a pending completion keyed by env.ID, writes the
// framed request, and awaits the matching response or timeout.
func (e *Engine) sendSync(ctx context.Context, env *ptypes.Envelope, timeout time.Duration) (*ptypes.Envelope, *ptypes.ProtoError) {
	ch := make(chan pendingResult, 1)
	e.pendingMu.Lock()
	e.pending[env.ID] = ch
	n := len(e.pending)
	e.pendingMu.Unlock()
	obslog.SetPendingRequests(n)

	start := time.Now()
	if err := e.writeEnvelope(env); err != nil {
		e.removePending(env.ID)
		obslog.RecordRequestDuration("write_error", time.Since(start))
		return nil, ptypes.NewWriteError(err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			obslog.RecordRequestDuration("error", time.Since(start))
			return nil, res.err
		}
		obslog.RecordRequestDuration("ok", time.Since(start))
		return res.env, nil
	case <-timer.C:
		e.removePending(env.ID)
		obslog.RecordRequestDuration("timeout", time.Since(start))
		return nil, ptypes.NewTimeoutError()
	case <-ctx.Done():
		e.removePending(env.ID)
		obslog.RecordRequestDuration("cancelled", time.Since(start))
		return nil, ptypes.NewTimeoutError()
	}
}

func (e *Engine) removePending(id uint64) {
	e.pendingMu.Lock()
	delete(e.pending, id)
	n := len(e.pending)
	e.pendingMu.Unlock()
	obslog.SetPendingRequests(n)
}

// failAllPending completes every outstanding request with protoErr. It is
// called once per connection loss so no caller of sendSync hangs forever.
func (e *Engine) failAllPending(protoErr *ptypes.ProtoError) {
	e.pendingMu.Lock()
	pending := e.pending
	e.pending = make(map[uint64]chan pendingResult)
	e.pendingMu.Unlock()
	obslog.SetPendingRequests(0)

	for _, ch := range pending {
		ch <- pendingResult{err: protoErr}
	}
}

func (e *Engine) writeEnvelope(env *ptypes.Envelope) error {
	payload, err := ptypes.MarshalEnvelope(env)
	if err != nil {
		return err
	}
	conn := e.currentConn()
	if conn == nil {
		return errNotConnected
	}
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if err := frame.WriteFrame(conn, payload); err != nil {
		return err
	}
	obslog.RecordFrameSent(env.Kind.String())
	return nil
}

type engineErr string

func (e engineErr) Error() string { return string(e) }

const errNotConnected = engineErr("engine: not connected")
