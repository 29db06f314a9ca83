package ptypes

import (
	"bytes"
	"testing"
)

func TestEnvelopeConfigRoundTrip(t *testing.T) {
	env := &Envelope{
		ID: 999,
		Config: &PluginConfig{
			Name:                  "send",
			ID:                    1,
			Version:               1,
			SupportedTransactions: []string{"send"},
		},
	}
	encoded, err := MarshalEnvelope(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := UnmarshalEnvelope(encoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != 999 || decoded.Kind != KindConfigPayload {
		t.Fatalf("unexpected envelope: %+v", decoded)
	}
	if decoded.Config.Name != "send" || decoded.Config.ID != 1 || decoded.Config.Version != 1 {
		t.Fatalf("unexpected config: %+v", decoded.Config)
	}
	if len(decoded.Config.SupportedTransactions) != 1 || decoded.Config.SupportedTransactions[0] != "send" {
		t.Fatalf("unexpected supportedTransactions: %v", decoded.Config.SupportedTransactions)
	}
}

func TestEnvelopeCheckTxRoundTrip(t *testing.T) {
	from := bytes.Repeat([]byte{0x01}, 20)
	to := bytes.Repeat([]byte{0x02}, 20)
	env := &Envelope{
		ID: 42,
		Check: &CheckTxPayload{
			Tx: ToAny(5, &MessageSend{FromAddress: from, ToAddress: to, Amount: 100}),
		},
	}
	encoded, err := MarshalEnvelope(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := UnmarshalEnvelope(encoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != KindCheckPayload || decoded.Check == nil || decoded.Check.Tx == nil {
		t.Fatalf("unexpected envelope: %+v", decoded)
	}
	if decoded.Check.Tx.Fee != 5 {
		t.Fatalf("fee = %d, want 5", decoded.Check.Tx.Fee)
	}
	msg, err := FromAny(decoded.Check.Tx)
	if err != nil {
		t.Fatalf("fromAny: %v", err)
	}
	if !bytes.Equal(msg.FromAddress, from) || !bytes.Equal(msg.ToAddress, to) || msg.Amount != 100 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestEnvelopeErrorPayloadRoundTrip(t *testing.T) {
	env := &Envelope{ID: 7, ErrMsg: NewInsufficientFundsError()}
	encoded, err := MarshalEnvelope(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := UnmarshalEnvelope(encoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != KindErrorPayload || decoded.ErrMsg == nil {
		t.Fatalf("unexpected envelope: %+v", decoded)
	}
	if decoded.ErrMsg.Code != uint32(KindInsufficientFunds) {
		t.Fatalf("code = %d", decoded.ErrMsg.Code)
	}
}

func TestEnvelopeStateReadWriteRoundTrip(t *testing.T) {
	readEnv := &Envelope{
		ID: 3,
		StateRd: &StateReadPayload{
			Results: []StateReadResult{
				{QueryID: 1, Entries: []KVEntry{{Key: []byte("k1"), Value: []byte("v1")}}},
				{QueryID: 2, Entries: nil},
			},
		},
	}
	encoded, err := MarshalEnvelope(readEnv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := UnmarshalEnvelope(encoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.StateRd.Results) != 1 {
		t.Fatalf("expected one result with entries, got %d", len(decoded.StateRd.Results))
	}

	writeEnv := &Envelope{
		ID: 4,
		StateWr: &StateWritePayload{
			Sets:    []StateWriteSet{{Key: []byte("k"), Value: []byte("v")}},
			Deletes: [][]byte{[]byte("d1")},
		},
	}
	encoded, err = MarshalEnvelope(writeEnv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err = UnmarshalEnvelope(encoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.StateWr.Sets) != 1 || len(decoded.StateWr.Deletes) != 1 {
		t.Fatalf("unexpected state write payload: %+v", decoded.StateWr)
	}
}

func TestMarshalAccountPoolFeeParamsRoundTrip(t *testing.T) {
	addr := bytes.Repeat([]byte{0x09}, 20)
	acc, err := UnmarshalAccount(MarshalAccount(&Account{Address: addr, Amount: 500}))
	if err != nil {
		t.Fatalf("account round-trip: %v", err)
	}
	if !bytes.Equal(acc.Address, addr) || acc.Amount != 500 {
		t.Fatalf("unexpected account: %+v", acc)
	}

	pool, err := UnmarshalPool(MarshalPool(&Pool{ID: 1, Amount: 42}))
	if err != nil {
		t.Fatalf("pool round-trip: %v", err)
	}
	if pool.ID != 1 || pool.Amount != 42 {
		t.Fatalf("unexpected pool: %+v", pool)
	}

	fp, err := UnmarshalFeeParams(MarshalFeeParams(&FeeParams{SendFee: 3}))
	if err != nil {
		t.Fatalf("fee params round-trip: %v", err)
	}
	if fp.SendFee != 3 {
		t.Fatalf("unexpected fee params: %+v", fp)
	}
}

func TestFromAnyRejectsUnknownTypeURL(t *testing.T) {
	env := &TxEnvelope{Fee: 1, MsgTypeURL: "types.Unknown", MsgValue: []byte("x")}
	if _, err := FromAny(env); err == nil {
		t.Fatalf("expected FromAny to reject an unrecognized type URL")
	}
}

func TestFromAnyAcceptsLeadingSlashSpelling(t *testing.T) {
	env := ToAny(1, &MessageSend{FromAddress: bytes.Repeat([]byte{1}, 20), ToAddress: bytes.Repeat([]byte{2}, 20), Amount: 1})
	env.MsgTypeURL = "/" + env.MsgTypeURL
	if _, err := FromAny(env); err != nil {
		t.Fatalf("expected leading-slash spelling to be accepted: %v", err)
	}
}
