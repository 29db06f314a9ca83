package ptypes

import "strings"

// FromAny decodes the polymorphic tx.msg Any payload into a concrete
// message. Only MessageSend is recognized; everything else is
// InvalidMessageCast, and a malformed Any is FromAny.
func FromAny(tx *TxEnvelope) (*MessageSend, error) {
	if tx == nil {
		return nil, NewFromAnyError(errNilTxEnvelope)
	}
	if !isMessageSendTypeURL(tx.MsgTypeURL) {
		return nil, NewInvalidMessageCastError()
	}
	msg, err := UnmarshalMessageSend(tx.MsgValue)
	if err != nil {
		return nil, NewFromAnyError(err)
	}
	return msg, nil
}

// isMessageSendTypeURL accepts the bare "types.MessageSend" spelling plus
// the leading-slash Any convention ("/types.MessageSend") and a
// fully-qualified variant some encoders emit.
func isMessageSendTypeURL(typeURL string) bool {
	t := strings.TrimPrefix(typeURL, "/")
	return t == MessageSendTypeURL || t == "types.MessageSend" || strings.HasSuffix(t, ".MessageSend")
}

// ToAny packs a MessageSend into a TxEnvelope's polymorphic msg slot with
// the canonical type URL.
func ToAny(fee uint64, m *MessageSend) *TxEnvelope {
	return &TxEnvelope{
		Fee:        fee,
		MsgTypeURL: MessageSendTypeURL,
		MsgValue:   MarshalMessageSend(m),
	}
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errNilTxEnvelope = sentinelErr("ptypes: nil tx envelope")
