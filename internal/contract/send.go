// Package contract implements the "send" smart-contract type: the
// deterministic business logic FSM requests drive through genesis,
// beginBlock, checkTx, deliverTx and endBlock. It is stateless — every
// state read and write is issued through a StateClient back to the FSM.
package contract

import (
	"context"

	"github.com/chainkit/sendplugin/internal/obslog"
	"github.com/chainkit/sendplugin/internal/ptypes"
	"github.com/chainkit/sendplugin/internal/statekeys"
)

// ContractName is the transaction-type name this contract registers under
// and announces in the handshake's supportedTransactions list.
const ContractName = "send"

// StateClient is the narrow slice of the protocol engine the contract
// needs: batched state reads and writes, each suspending the caller until
// the FSM responds. The contract never touches the socket directly.
type StateClient interface {
	ReadState(ctx context.Context, keys []ptypes.StateReadKey) ([]ptypes.StateReadResult, *ptypes.ProtoError)
	WriteState(ctx context.Context, sets []ptypes.StateWriteSet, deletes [][]byte) *ptypes.ProtoError
}

// SendContract is the Contract implementation for the plugin's one
// transaction family.
type SendContract struct {
	ChainID uint64
	State   StateClient
}

func New(chainID uint64, state StateClient) *SendContract {
	return &SendContract{ChainID: chainID, State: state}
}

func (c *SendContract) Name() string { return ContractName }

func (c *SendContract) Genesis(_ *ptypes.GenesisPayload) *ptypes.GenesisPayload {
	return &ptypes.GenesisPayload{}
}

func (c *SendContract) BeginBlock(_ *ptypes.BeginBlockPayload) *ptypes.BeginBlockPayload {
	return &ptypes.BeginBlockPayload{}
}

func (c *SendContract) EndBlock(_ *ptypes.EndBlockPayload) *ptypes.EndBlockPayload {
	return &ptypes.EndBlockPayload{}
}

// CheckTx validates a send transaction against governance fee floor and
// message shape, without mutating any state.
func (c *SendContract) CheckTx(req *ptypes.CheckTxPayload) *ptypes.CheckTxPayload {
	resp, code := c.checkTx(req)
	obslog.RecordContractOutcome("checkTx", code)
	return resp
}

func (c *SendContract) checkTx(req *ptypes.CheckTxPayload) (*ptypes.CheckTxPayload, uint32) {
	ctx := context.Background()
	feeParams, protoErr := c.readFeeParams(ctx)
	if protoErr != nil {
		return &ptypes.CheckTxPayload{Error: protoErr}, protoErr.Code
	}

	if req.Tx == nil || req.Tx.Fee < feeParams.SendFee {
		err := ptypes.NewTxFeeBelowStateLimitError()
		return &ptypes.CheckTxPayload{Error: err}, err.Code
	}

	msg, err := ptypes.FromAny(req.Tx)
	if err != nil {
		protoErr := err.(*ptypes.ProtoError)
		return &ptypes.CheckTxPayload{Error: protoErr}, protoErr.Code
	}

	if !statekeys.ValidateAddress(msg.FromAddress) {
		err := ptypes.NewInvalidAddressError()
		return &ptypes.CheckTxPayload{Error: err}, err.Code
	}
	if !statekeys.ValidateAddress(msg.ToAddress) {
		err := ptypes.NewInvalidAddressError()
		return &ptypes.CheckTxPayload{Error: err}, err.Code
	}
	if !statekeys.ValidateAmount(msg.Amount) {
		err := ptypes.NewInvalidAmountError()
		return &ptypes.CheckTxPayload{Error: err}, err.Code
	}

	return &ptypes.CheckTxPayload{
		Recipient:         msg.ToAddress,
		AuthorizedSigners: [][]byte{msg.FromAddress},
	}, 0
}

// DeliverTx executes a validated send transaction, mutating balances and
// the fee pool.
func (c *SendContract) DeliverTx(req *ptypes.DeliverTxPayload) *ptypes.DeliverTxPayload {
	resp, code := c.deliverTx(req)
	obslog.RecordContractOutcome("deliverTx", code)
	return resp
}

func (c *SendContract) deliverTx(req *ptypes.DeliverTxPayload) (*ptypes.DeliverTxPayload, uint32) {
	msg, err := ptypes.FromAny(req.Tx)
	if err != nil {
		protoErr := err.(*ptypes.ProtoError)
		return &ptypes.DeliverTxPayload{Error: protoErr}, protoErr.Code
	}

	if protoErr := c.executeSend(context.Background(), msg, req.Tx.Fee); protoErr != nil {
		return &ptypes.DeliverTxPayload{Error: protoErr}, protoErr.Code
	}
	return &ptypes.DeliverTxPayload{}, 0
}

func (c *SendContract) readFeeParams(ctx context.Context) (*ptypes.FeeParams, *ptypes.ProtoError) {
	const feeParamsQueryID = 1
	results, protoErr := c.State.ReadState(ctx, []ptypes.StateReadKey{
		{QueryID: feeParamsQueryID, Key: statekeys.KeyForFeeParams()},
	})
	if protoErr != nil {
		return nil, protoErr
	}
	entry, ok := firstEntry(results, feeParamsQueryID)
	if !ok || len(entry.Value) == 0 {
		return nil, &ptypes.ProtoError{Code: uint32(ptypes.KindUnmarshal), Module: "plugin", Msg: "Fee parameters not found"}
	}
	fp, err := ptypes.UnmarshalFeeParams(entry.Value)
	if err != nil {
		return nil, ptypes.NewUnmarshalError(err)
	}
	return fp, nil
}

func firstEntry(results []ptypes.StateReadResult, queryID uint64) (ptypes.KVEntry, bool) {
	for _, r := range results {
		if r.QueryID != queryID {
			continue
		}
		if len(r.Entries) == 0 {
			return ptypes.KVEntry{}, false
		}
		return r.Entries[0], true
	}
	return ptypes.KVEntry{}, false
}
