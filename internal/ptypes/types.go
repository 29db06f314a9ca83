package ptypes

// PayloadKind identifies which oneof member an Envelope carries. It is
// derived from the wire field number on decode and is convenient for
// dispatch switches; it is never itself written to the wire.
type PayloadKind uint8

const (
	KindNonePayload PayloadKind = iota
	KindConfigPayload
	KindGenesisPayload
	KindBeginPayload
	KindCheckPayload
	KindDeliverPayload
	KindEndPayload
	KindStateReadPayload
	KindStateWritePayload
	KindErrorPayload
)

func (k PayloadKind) String() string {
	switch k {
	case KindConfigPayload:
		return "config"
	case KindGenesisPayload:
		return "genesis"
	case KindBeginPayload:
		return "begin"
	case KindCheckPayload:
		return "check"
	case KindDeliverPayload:
		return "deliver"
	case KindEndPayload:
		return "end"
	case KindStateReadPayload:
		return "stateRead"
	case KindStateWritePayload:
		return "stateWrite"
	case KindErrorPayload:
		return "error"
	default:
		return "none"
	}
}

// Envelope is the wire-level tagged union shared by PluginToFSM and
// FSMToPlugin: an id plus exactly one populated payload.
type Envelope struct {
	ID      uint64
	Kind    PayloadKind
	Config  *PluginConfig
	Genesis *GenesisPayload
	Begin   *BeginBlockPayload
	Check   *CheckTxPayload
	Deliver *DeliverTxPayload
	End     *EndBlockPayload
	StateRd *StateReadPayload
	StateWr *StateWritePayload
	ErrMsg  *ProtoError
}

// PluginConfig is the handshake payload the plugin announces to the FSM.
type PluginConfig struct {
	Name                  string
	ID                    uint64
	Version               uint64
	SupportedTransactions []string
}

type GenesisPayload struct {
	Error *ProtoError
}

type BeginBlockPayload struct {
	Error *ProtoError
}

type EndBlockPayload struct {
	Error *ProtoError
}

// CheckTxPayload carries the request Tx on the way in and Recipient /
// AuthorizedSigners / Error on the way back out, on the same correlation id.
type CheckTxPayload struct {
	Tx                *TxEnvelope
	Recipient         []byte
	AuthorizedSigners [][]byte
	Error             *ProtoError
}

type DeliverTxPayload struct {
	Tx    *TxEnvelope
	Error *ProtoError
}

// TxEnvelope is {fee, msg}, where msg is a polymorphic Any keyed by a
// typeUrl string. Only types.MessageSend is recognized.
type TxEnvelope struct {
	Fee        uint64
	MsgTypeURL string
	MsgValue   []byte
}

// MessageSendTypeURL is the only typeUrl fromAny() recognizes.
const MessageSendTypeURL = "types.MessageSend"

type MessageSend struct {
	FromAddress []byte
	ToAddress   []byte
	Amount      uint64
}

type StateReadKey struct {
	QueryID uint64
	Key     []byte
}

type KVEntry struct {
	Key   []byte
	Value []byte
}

type StateReadResult struct {
	QueryID uint64
	Entries []KVEntry
}

// StateReadPayload carries Keys on the outbound request and Results/Error
// on the inbound response to that same correlation id.
type StateReadPayload struct {
	Keys    []StateReadKey
	Results []StateReadResult
	Error   *ProtoError
}

type StateWriteSet struct {
	Key   []byte
	Value []byte
}

// StateWritePayload carries Sets/Deletes on the outbound request and Error
// on the inbound response.
type StateWritePayload struct {
	Sets    []StateWriteSet
	Deletes [][]byte
	Error   *ProtoError
}

// Account, Pool and FeeParams are not Envelope payloads; they are the
// values stored under state keys, encoded/decoded independently by the
// contract when it reads/writes KVEntry.Value.
type Account struct {
	Address []byte
	Amount  uint64
}

type Pool struct {
	ID     uint64
	Amount uint64
}

type FeeParams struct {
	SendFee uint64
}
