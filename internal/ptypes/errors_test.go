package ptypes

import (
	"errors"
	"testing"
)

func TestProtoErrorIsMatchesByCode(t *testing.T) {
	a := NewInsufficientFundsError()
	b := NewInsufficientFundsError()
	if !errors.Is(a, b) {
		t.Fatalf("expected two insufficient-funds errors to be Is-equal")
	}
	if errors.Is(a, NewInvalidAddressError()) {
		t.Fatalf("expected different-code errors not to be Is-equal")
	}
}

func TestProtoErrorWireShape(t *testing.T) {
	err := NewTxFeeBelowStateLimitError()
	if err.Code != uint32(KindTxFeeBelowStateLimit) {
		t.Fatalf("code = %d, want %d", err.Code, KindTxFeeBelowStateLimit)
	}
	if err.Module != "plugin" {
		t.Fatalf("module = %q, want %q", err.Module, "plugin")
	}
	if err.Msg != "tx.fee is below state limit" {
		t.Fatalf("msg = %q", err.Msg)
	}
}

func TestFromPanicUsesTimeoutCode(t *testing.T) {
	err := FromPanic("boom")
	if err.Code != uint32(KindPluginTimeout) {
		t.Fatalf("FromPanic code = %d, want %d", err.Code, KindPluginTimeout)
	}
	if err.Msg != "boom" {
		t.Fatalf("FromPanic msg = %q", err.Msg)
	}
}

func TestCanonicalMessages(t *testing.T) {
	cases := []struct {
		err  *ProtoError
		code Kind
		msg  string
	}{
		{NewTimeoutError(), KindPluginTimeout, "a plugin timeout occurred"},
		{NewInsufficientFundsError(), KindInsufficientFunds, "insufficient funds"},
		{NewInvalidMessageCastError(), KindInvalidMessageCast, "the message cast failed"},
		{NewInvalidAddressError(), KindInvalidAddress, "address is invalid"},
		{NewInvalidAmountError(), KindInvalidAmount, "amount is invalid"},
		{NewInvalidRespIDError(), KindInvalidPluginRespID, "plugin response id is invalid"},
	}
	for _, c := range cases {
		if c.err.Code != uint32(c.code) {
			t.Fatalf("code = %d, want %d", c.err.Code, c.code)
		}
		if c.err.Msg != c.msg {
			t.Fatalf("msg = %q, want %q", c.err.Msg, c.msg)
		}
	}
}
