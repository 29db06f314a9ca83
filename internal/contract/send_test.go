package contract

import (
	"bytes"
	"context"
	"testing"

	"github.com/chainkit/sendplugin/internal/ptypes"
	"github.com/chainkit/sendplugin/internal/statekeys"
)

// fakeState is an in-memory StateClient standing in for the FSM's
// key-value store, used to drive the six literal end-to-end scenarios.
type fakeState struct {
	kv            map[string][]byte
	lastSets      []ptypes.StateWriteSet
	lastDeletes   [][]byte
	writeCalls    int
	writeErr      *ptypes.ProtoError
	readErr       *ptypes.ProtoError
}

func newFakeState() *fakeState { return &fakeState{kv: map[string][]byte{}} }

func (f *fakeState) ReadState(_ context.Context, keys []ptypes.StateReadKey) ([]ptypes.StateReadResult, *ptypes.ProtoError) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	results := make([]ptypes.StateReadResult, 0, len(keys))
	for _, k := range keys {
		var entries []ptypes.KVEntry
		if v, ok := f.kv[string(k.Key)]; ok {
			entries = append(entries, ptypes.KVEntry{Key: k.Key, Value: v})
		}
		results = append(results, ptypes.StateReadResult{QueryID: k.QueryID, Entries: entries})
	}
	return results, nil
}

func (f *fakeState) WriteState(_ context.Context, sets []ptypes.StateWriteSet, deletes [][]byte) *ptypes.ProtoError {
	f.writeCalls++
	f.lastSets = sets
	f.lastDeletes = deletes
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, s := range sets {
		f.kv[string(s.Key)] = s.Value
	}
	for _, d := range deletes {
		delete(f.kv, string(d))
	}
	return nil
}

func addr(b byte) []byte {
	out := make([]byte, statekeys.AddressLen)
	for i := range out {
		out[i] = b
	}
	return out
}

func setupChain(t *testing.T, state *fakeState, chainID, sendFee uint64) {
	t.Helper()
	state.kv[string(statekeys.KeyForFeeParams())] = ptypes.MarshalFeeParams(&ptypes.FeeParams{SendFee: sendFee})
}

func setAccount(state *fakeState, a []byte, amount uint64) {
	state.kv[string(statekeys.KeyForAccount(a))] = ptypes.MarshalAccount(&ptypes.Account{Address: a, Amount: amount})
}

func setPool(state *fakeState, chainID, amount uint64) {
	state.kv[string(statekeys.KeyForFeePool(chainID))] = ptypes.MarshalPool(&ptypes.Pool{ID: chainID, Amount: amount})
}

func deliverTx(from, to []byte, amount, fee uint64) *ptypes.DeliverTxPayload {
	return &ptypes.DeliverTxPayload{Tx: ptypes.ToAny(fee, &ptypes.MessageSend{FromAddress: from, ToAddress: to, Amount: amount})}
}

func checkTx(from, to []byte, amount, fee uint64) *ptypes.CheckTxPayload {
	return &ptypes.CheckTxPayload{Tx: ptypes.ToAny(fee, &ptypes.MessageSend{FromAddress: from, ToAddress: to, Amount: amount})}
}

// Scenario 1: valid send, both accounts present.
func TestDeliverTxValidSendBothPresent(t *testing.T) {
	state := newFakeState()
	chainID := uint64(1)
	setupChain(t, state, chainID, 1)
	a, b := addr(0x01), addr(0x02)
	setAccount(state, a, 1000)
	setAccount(state, b, 50)
	setPool(state, chainID, 0)

	c := New(chainID, state)
	resp := c.DeliverTx(deliverTx(a, b, 100, 2))
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	assertAccount(t, state, a, 898)
	assertAccount(t, state, b, 150)
	assertPool(t, state, chainID, 2)
	if len(state.lastDeletes) != 0 {
		t.Fatalf("expected no deletes, got %v", state.lastDeletes)
	}
}

// Scenario 2: drain-to-zero deletes the sender's account.
func TestDeliverTxDrainToZeroDeletes(t *testing.T) {
	state := newFakeState()
	chainID := uint64(1)
	setupChain(t, state, chainID, 1)
	a, b := addr(0x01), addr(0x02)
	setAccount(state, a, 102)
	setAccount(state, b, 50)
	setPool(state, chainID, 0)

	c := New(chainID, state)
	resp := c.DeliverTx(deliverTx(a, b, 100, 2))
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if _, ok := state.kv[string(statekeys.KeyForAccount(a))]; ok {
		t.Fatalf("expected sender account deleted")
	}
	assertAccount(t, state, b, 150)
	assertPool(t, state, chainID, 2)
	if len(state.lastDeletes) != 1 || !bytes.Equal(state.lastDeletes[0], statekeys.KeyForAccount(a)) {
		t.Fatalf("expected delete of sender key, got %v", state.lastDeletes)
	}
}

// Scenario 3: self-transfer only deducts the fee.
func TestDeliverTxSelfTransferOnlyFee(t *testing.T) {
	state := newFakeState()
	chainID := uint64(1)
	setupChain(t, state, chainID, 1)
	a := addr(0x01)
	setAccount(state, a, 500)
	setPool(state, chainID, 0)

	c := New(chainID, state)
	resp := c.DeliverTx(deliverTx(a, a, 100, 3))
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	assertAccount(t, state, a, 497)
	assertPool(t, state, chainID, 3)
	if len(state.lastDeletes) != 0 {
		t.Fatalf("expected no deletes on self-transfer, got %v", state.lastDeletes)
	}
	if len(state.lastSets) != 2 {
		t.Fatalf("expected exactly pool+self sets, got %d", len(state.lastSets))
	}
}

// Scenario 4: insufficient funds leaves state untouched.
func TestDeliverTxInsufficientFunds(t *testing.T) {
	state := newFakeState()
	chainID := uint64(1)
	setupChain(t, state, chainID, 1)
	a, b := addr(0x01), addr(0x02)
	setAccount(state, a, 10)
	setPool(state, chainID, 0)

	c := New(chainID, state)
	resp := c.DeliverTx(deliverTx(a, b, 100, 2))
	if resp.Error == nil || resp.Error.Code != uint32(ptypes.KindInsufficientFunds) {
		t.Fatalf("expected insufficient funds error, got %v", resp.Error)
	}
	if state.writeCalls != 0 {
		t.Fatalf("expected no state write, got %d calls", state.writeCalls)
	}
}

// Scenario 5: fee below state limit in checkTx short-circuits after the
// fee-params read.
func TestCheckTxFeeBelowStateLimit(t *testing.T) {
	state := newFakeState()
	chainID := uint64(1)
	setupChain(t, state, chainID, 5)
	a, b := addr(0x01), addr(0x02)

	c := New(chainID, state)
	resp := c.CheckTx(checkTx(a, b, 10, 4))
	if resp.Error == nil || resp.Error.Code != uint32(ptypes.KindTxFeeBelowStateLimit) {
		t.Fatalf("expected fee-below-limit error, got %v", resp.Error)
	}
}

// Scenario 6: bad from-address surfaces after the fee-params read passes.
func TestCheckTxBadFromAddress(t *testing.T) {
	state := newFakeState()
	chainID := uint64(1)
	setupChain(t, state, chainID, 1)
	badFrom := addr(0x01)[:19]
	b := addr(0x02)

	c := New(chainID, state)
	resp := c.CheckTx(checkTx(badFrom, b, 10, 4))
	if resp.Error == nil || resp.Error.Code != uint32(ptypes.KindInvalidAddress) {
		t.Fatalf("expected invalid address error, got %v", resp.Error)
	}
}

func TestCheckTxValidSendReturnsRecipientAndSigner(t *testing.T) {
	state := newFakeState()
	chainID := uint64(1)
	setupChain(t, state, chainID, 1)
	a, b := addr(0x01), addr(0x02)

	c := New(chainID, state)
	resp := c.CheckTx(checkTx(a, b, 10, 4))
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if !bytes.Equal(resp.Recipient, b) {
		t.Fatalf("recipient mismatch")
	}
	if len(resp.AuthorizedSigners) != 1 || !bytes.Equal(resp.AuthorizedSigners[0], a) {
		t.Fatalf("authorized signers mismatch: %v", resp.AuthorizedSigners)
	}
}

func TestGenesisBeginEndReturnNilError(t *testing.T) {
	c := New(1, newFakeState())
	if resp := c.Genesis(&ptypes.GenesisPayload{}); resp.Error != nil {
		t.Fatalf("genesis: %v", resp.Error)
	}
	if resp := c.BeginBlock(&ptypes.BeginBlockPayload{}); resp.Error != nil {
		t.Fatalf("beginBlock: %v", resp.Error)
	}
	if resp := c.EndBlock(&ptypes.EndBlockPayload{}); resp.Error != nil {
		t.Fatalf("endBlock: %v", resp.Error)
	}
}

func assertAccount(t *testing.T, state *fakeState, a []byte, want uint64) {
	t.Helper()
	v, ok := state.kv[string(statekeys.KeyForAccount(a))]
	if !ok {
		t.Fatalf("account %x missing", a)
	}
	acc, err := ptypes.UnmarshalAccount(v)
	if err != nil {
		t.Fatalf("decode account: %v", err)
	}
	if acc.Amount != want {
		t.Fatalf("account %x amount = %d, want %d", a, acc.Amount, want)
	}
}

func assertPool(t *testing.T, state *fakeState, chainID, want uint64) {
	t.Helper()
	v, ok := state.kv[string(statekeys.KeyForFeePool(chainID))]
	if !ok {
		t.Fatalf("pool missing")
	}
	p, err := ptypes.UnmarshalPool(v)
	if err != nil {
		t.Fatalf("decode pool: %v", err)
	}
	if p.Amount != want {
		t.Fatalf("pool amount = %d, want %d", p.Amount, want)
	}
}
