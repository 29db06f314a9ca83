package engine

import (
	"context"

	"github.com/chainkit/sendplugin/internal/ptypes"
	"github.com/chainkit/sendplugin/internal/statekeys"
)

// ReadState implements contract.StateClient: issue one batched stateRead
// and return its results, or the error the FSM attached to the response.
func (e *Engine) ReadState(ctx context.Context, keys []ptypes.StateReadKey) ([]ptypes.StateReadResult, *ptypes.ProtoError) {
	req := &ptypes.Envelope{
		ID:      e.nextID.Add(1),
		Kind:    ptypes.KindStateReadPayload,
		StateRd: &ptypes.StateReadPayload{Keys: keys},
	}
	resp, protoErr := e.sendSync(ctx, req, e.cfg.Session.RequestTimeout)
	if protoErr != nil {
		return nil, protoErr
	}
	if resp.StateRd == nil {
		return nil, ptypes.NewInvalidFSMToPluginError(resp.Kind.String())
	}
	if resp.StateRd.Error != nil {
		return nil, resp.StateRd.Error
	}
	return resp.StateRd.Results, nil
}

// WriteState implements contract.StateClient: issue one batched
// stateWrite and return the error the FSM attached to the response, if
// any.
func (e *Engine) WriteState(ctx context.Context, sets []ptypes.StateWriteSet, deletes [][]byte) *ptypes.ProtoError {
	req := &ptypes.Envelope{
		ID:      e.nextID.Add(1),
		Kind:    ptypes.KindStateWritePayload,
		StateWr: &ptypes.StateWritePayload{Sets: sets, Deletes: deletes},
	}
	resp, protoErr := e.sendSync(ctx, req, e.cfg.Session.RequestTimeout)
	if protoErr != nil {
		return protoErr
	}
	if resp.StateWr == nil {
		return ptypes.NewInvalidFSMToPluginError(resp.Kind.String())
	}
	return resp.StateWr.Error
}

const queryIDFeePool = 1

// QueryFeePool fetches the singleton fee pool for the configured chain
// id, for the diagnostics server to display.
func (e *Engine) QueryFeePool(ctx context.Context) (*ptypes.Pool, *ptypes.ProtoError) {
	results, protoErr := e.ReadState(ctx, []ptypes.StateReadKey{
		{QueryID: queryIDFeePool, Key: statekeys.KeyForFeePool(e.cfg.ChainID)},
	})
	if protoErr != nil {
		return nil, protoErr
	}
	for _, r := range results {
		if r.QueryID != queryIDFeePool || len(r.Entries) == 0 {
			continue
		}
		p, err := ptypes.UnmarshalPool(r.Entries[0].Value)
		if err != nil {
			return nil, ptypes.NewUnmarshalError(err)
		}
		return p, nil
	}
	return &ptypes.Pool{ID: e.cfg.ChainID, Amount: 0}, nil
}
