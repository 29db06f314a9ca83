package ptypes

// Hand-rolled protobuf wire codec for the plugin<->FSM message schema.
// The schema is treated as an opaque wire format by the rest of the
// plugin; this file is the one place that knows the field numbering.
// It is built on protowire rather than generated *.pb.go code so the
// schema can evolve without a protoc step.

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers for Envelope (PluginToFSM / FSMToPlugin share one schema).
const (
	fieldEnvelopeID         = 1
	fieldEnvelopeConfig     = 10
	fieldEnvelopeGenesis    = 11
	fieldEnvelopeBegin      = 12
	fieldEnvelopeCheck      = 13
	fieldEnvelopeDeliver    = 14
	fieldEnvelopeEnd        = 15
	fieldEnvelopeStateRead  = 16
	fieldEnvelopeStateWrite = 17
	fieldEnvelopeError      = 18
)

func MarshalEnvelope(e *Envelope) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("ptypes: nil envelope")
	}
	var b []byte
	b = protowire.AppendTag(b, fieldEnvelopeID, protowire.VarintType)
	b = protowire.AppendVarint(b, e.ID)

	switch {
	case e.Config != nil:
		b = appendSubmessage(b, fieldEnvelopeConfig, marshalPluginConfig(e.Config))
	case e.Genesis != nil:
		b = appendSubmessage(b, fieldEnvelopeGenesis, marshalErrOnly(e.Genesis.Error))
	case e.Begin != nil:
		b = appendSubmessage(b, fieldEnvelopeBegin, marshalErrOnly(e.Begin.Error))
	case e.Check != nil:
		sub, err := marshalCheckTx(e.Check)
		if err != nil {
			return nil, err
		}
		b = appendSubmessage(b, fieldEnvelopeCheck, sub)
	case e.Deliver != nil:
		sub, err := marshalDeliverTx(e.Deliver)
		if err != nil {
			return nil, err
		}
		b = appendSubmessage(b, fieldEnvelopeDeliver, sub)
	case e.End != nil:
		b = appendSubmessage(b, fieldEnvelopeEnd, marshalErrOnly(e.End.Error))
	case e.StateRd != nil:
		b = appendSubmessage(b, fieldEnvelopeStateRead, marshalStateRead(e.StateRd))
	case e.StateWr != nil:
		b = appendSubmessage(b, fieldEnvelopeStateWrite, marshalStateWrite(e.StateWr))
	case e.ErrMsg != nil:
		b = appendSubmessage(b, fieldEnvelopeError, marshalProtoError(e.ErrMsg))
	}
	return b, nil
}

func UnmarshalEnvelope(b []byte) (*Envelope, error) {
	e := &Envelope{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldEnvelopeID:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad id varint: %w", protowire.ParseError(n))
			}
			e.ID = v
			b = b[n:]
		case fieldEnvelopeConfig, fieldEnvelopeGenesis, fieldEnvelopeBegin, fieldEnvelopeCheck,
			fieldEnvelopeDeliver, fieldEnvelopeEnd, fieldEnvelopeStateRead, fieldEnvelopeStateWrite,
			fieldEnvelopeError:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad submessage: %w", protowire.ParseError(n))
			}
			b = b[n:]
			if err := decodeEnvelopePayload(e, num, sub); err != nil {
				return nil, err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return e, nil
}

func decodeEnvelopePayload(e *Envelope, num protowire.Number, sub []byte) error {
	switch num {
	case fieldEnvelopeConfig:
		cfg, err := unmarshalPluginConfig(sub)
		if err != nil {
			return err
		}
		e.Kind = KindConfigPayload
		e.Config = cfg
	case fieldEnvelopeGenesis:
		e.Kind = KindGenesisPayload
		e.Genesis = &GenesisPayload{Error: mustUnmarshalOptErr(sub)}
	case fieldEnvelopeBegin:
		e.Kind = KindBeginPayload
		e.Begin = &BeginBlockPayload{Error: mustUnmarshalOptErr(sub)}
	case fieldEnvelopeCheck:
		check, err := unmarshalCheckTx(sub)
		if err != nil {
			return err
		}
		e.Kind = KindCheckPayload
		e.Check = check
	case fieldEnvelopeDeliver:
		deliver, err := unmarshalDeliverTx(sub)
		if err != nil {
			return err
		}
		e.Kind = KindDeliverPayload
		e.Deliver = deliver
	case fieldEnvelopeEnd:
		e.Kind = KindEndPayload
		e.End = &EndBlockPayload{Error: mustUnmarshalOptErr(sub)}
	case fieldEnvelopeStateRead:
		sr, err := unmarshalStateRead(sub)
		if err != nil {
			return err
		}
		e.Kind = KindStateReadPayload
		e.StateRd = sr
	case fieldEnvelopeStateWrite:
		sw, err := unmarshalStateWrite(sub)
		if err != nil {
			return err
		}
		e.Kind = KindStateWritePayload
		e.StateWr = sw
	case fieldEnvelopeError:
		pe, err := unmarshalProtoError(sub)
		if err != nil {
			return err
		}
		e.Kind = KindErrorPayload
		e.ErrMsg = pe
	}
	return nil
}

func appendSubmessage(b []byte, num protowire.Number, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

// ---- ProtoError {1:code varint, 2:module string, 3:msg string} ----

func marshalProtoError(e *ProtoError) []byte {
	if e == nil {
		return nil
	}
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.Code))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, e.Module)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, e.Msg)
	return b
}

func unmarshalProtoError(b []byte) (*ProtoError, error) {
	if len(b) == 0 {
		return nil, nil
	}
	e := &ProtoError{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad ProtoError tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad ProtoError.code: %w", protowire.ParseError(n))
			}
			e.Code = uint32(v)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad ProtoError.module: %w", protowire.ParseError(n))
			}
			e.Module = v
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad ProtoError.msg: %w", protowire.ParseError(n))
			}
			e.Msg = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad ProtoError unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return e, nil
}

// marshalErrOnly / mustUnmarshalOptErr handle the {1: error} shape shared by
// genesis/begin/end payloads.
func marshalErrOnly(e *ProtoError) []byte {
	if e == nil {
		return nil
	}
	return appendSubmessage(nil, 1, marshalProtoError(e))
}

func mustUnmarshalOptErr(b []byte) *ProtoError {
	pe, _ := unmarshalOptErr(b)
	return pe
}

func unmarshalOptErr(b []byte) (*ProtoError, error) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad error-wrapper tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		if num == 1 && typ == protowire.BytesType {
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad error-wrapper bytes: %w", protowire.ParseError(n))
			}
			return unmarshalProtoError(sub)
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad error-wrapper unknown field: %w", protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil, nil
}

// ---- PluginConfig {1:name,2:id,3:version,4:repeated supportedTransactions} ----

func marshalPluginConfig(c *PluginConfig) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, c.Name)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, c.ID)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, c.Version)
	for _, t := range c.SupportedTransactions {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, t)
	}
	return b
}

func unmarshalPluginConfig(b []byte) (*PluginConfig, error) {
	c := &PluginConfig{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad PluginConfig tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad PluginConfig.name: %w", protowire.ParseError(n))
			}
			c.Name = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad PluginConfig.id: %w", protowire.ParseError(n))
			}
			c.ID = v
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad PluginConfig.version: %w", protowire.ParseError(n))
			}
			c.Version = v
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad PluginConfig.supportedTransactions: %w", protowire.ParseError(n))
			}
			c.SupportedTransactions = append(c.SupportedTransactions, v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad PluginConfig unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return c, nil
}

// ---- TxEnvelope {1:fee,2:msgTypeUrl,3:msgValue} ----

func marshalTxEnvelope(t *TxEnvelope) []byte {
	if t == nil {
		return nil
	}
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, t.Fee)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, t.MsgTypeURL)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, t.MsgValue)
	return b
}

func unmarshalTxEnvelope(b []byte) (*TxEnvelope, error) {
	t := &TxEnvelope{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad TxEnvelope tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad TxEnvelope.fee: %w", protowire.ParseError(n))
			}
			t.Fee = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad TxEnvelope.msgTypeUrl: %w", protowire.ParseError(n))
			}
			t.MsgTypeURL = v
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad TxEnvelope.msgValue: %w", protowire.ParseError(n))
			}
			t.MsgValue = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad TxEnvelope unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return t, nil
}

// ---- MessageSend {1:fromAddress,2:toAddress,3:amount} ----

func MarshalMessageSend(m *MessageSend) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, m.FromAddress)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, m.ToAddress)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Amount)
	return b
}

func UnmarshalMessageSend(b []byte) (*MessageSend, error) {
	m := &MessageSend{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad MessageSend tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad MessageSend.fromAddress: %w", protowire.ParseError(n))
			}
			m.FromAddress = append([]byte(nil), v...)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad MessageSend.toAddress: %w", protowire.ParseError(n))
			}
			m.ToAddress = append([]byte(nil), v...)
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad MessageSend.amount: %w", protowire.ParseError(n))
			}
			m.Amount = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad MessageSend unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return m, nil
}

// ---- CheckTxPayload {1:tx,2:recipient,3:repeated authorizedSigners,4:error} ----

func marshalCheckTx(c *CheckTxPayload) ([]byte, error) {
	var b []byte
	if c.Tx != nil {
		b = appendSubmessage(b, 1, marshalTxEnvelope(c.Tx))
	}
	if c.Recipient != nil {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, c.Recipient)
	}
	for _, s := range c.AuthorizedSigners {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, s)
	}
	if c.Error != nil {
		b = appendSubmessage(b, 4, marshalProtoError(c.Error))
	}
	return b, nil
}

func unmarshalCheckTx(b []byte) (*CheckTxPayload, error) {
	c := &CheckTxPayload{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad CheckTxPayload tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad CheckTxPayload.tx: %w", protowire.ParseError(n))
			}
			tx, err := unmarshalTxEnvelope(sub)
			if err != nil {
				return nil, err
			}
			c.Tx = tx
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad CheckTxPayload.recipient: %w", protowire.ParseError(n))
			}
			c.Recipient = append([]byte(nil), v...)
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad CheckTxPayload.authorizedSigners: %w", protowire.ParseError(n))
			}
			c.AuthorizedSigners = append(c.AuthorizedSigners, append([]byte(nil), v...))
			b = b[n:]
		case 4:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad CheckTxPayload.error: %w", protowire.ParseError(n))
			}
			pe, err := unmarshalProtoError(sub)
			if err != nil {
				return nil, err
			}
			c.Error = pe
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad CheckTxPayload unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return c, nil
}

// ---- DeliverTxPayload {1:tx,2:error} ----

func marshalDeliverTx(d *DeliverTxPayload) ([]byte, error) {
	var b []byte
	if d.Tx != nil {
		b = appendSubmessage(b, 1, marshalTxEnvelope(d.Tx))
	}
	if d.Error != nil {
		b = appendSubmessage(b, 2, marshalProtoError(d.Error))
	}
	return b, nil
}

func unmarshalDeliverTx(b []byte) (*DeliverTxPayload, error) {
	d := &DeliverTxPayload{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad DeliverTxPayload tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad DeliverTxPayload.tx: %w", protowire.ParseError(n))
			}
			tx, err := unmarshalTxEnvelope(sub)
			if err != nil {
				return nil, err
			}
			d.Tx = tx
			b = b[n:]
		case 2:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad DeliverTxPayload.error: %w", protowire.ParseError(n))
			}
			pe, err := unmarshalProtoError(sub)
			if err != nil {
				return nil, err
			}
			d.Error = pe
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad DeliverTxPayload unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return d, nil
}

// ---- StateReadPayload {1:repeated keys,2:error,3:repeated results} ----

func marshalStateReadKey(k StateReadKey) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, k.QueryID)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, k.Key)
	return b
}

func unmarshalStateReadKey(b []byte) (StateReadKey, error) {
	var k StateReadKey
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return k, fmt.Errorf("ptypes: bad StateReadKey tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return k, fmt.Errorf("ptypes: bad StateReadKey.queryId: %w", protowire.ParseError(n))
			}
			k.QueryID = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return k, fmt.Errorf("ptypes: bad StateReadKey.key: %w", protowire.ParseError(n))
			}
			k.Key = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return k, fmt.Errorf("ptypes: bad StateReadKey unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return k, nil
}

func marshalKVEntry(e KVEntry) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, e.Key)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, e.Value)
	return b
}

func unmarshalKVEntry(b []byte) (KVEntry, error) {
	var e KVEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return e, fmt.Errorf("ptypes: bad KVEntry tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return e, fmt.Errorf("ptypes: bad KVEntry.key: %w", protowire.ParseError(n))
			}
			e.Key = append([]byte(nil), v...)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return e, fmt.Errorf("ptypes: bad KVEntry.value: %w", protowire.ParseError(n))
			}
			e.Value = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return e, fmt.Errorf("ptypes: bad KVEntry unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return e, nil
}

func marshalStateReadResult(r StateReadResult) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, r.QueryID)
	for _, ent := range r.Entries {
		b = appendSubmessage(b, 2, marshalKVEntry(ent))
	}
	return b
}

func unmarshalStateReadResult(b []byte) (StateReadResult, error) {
	var r StateReadResult
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("ptypes: bad StateReadResult tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, fmt.Errorf("ptypes: bad StateReadResult.queryId: %w", protowire.ParseError(n))
			}
			r.QueryID = v
			b = b[n:]
		case 2:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return r, fmt.Errorf("ptypes: bad StateReadResult.entries: %w", protowire.ParseError(n))
			}
			ent, err := unmarshalKVEntry(sub)
			if err != nil {
				return r, err
			}
			r.Entries = append(r.Entries, ent)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return r, fmt.Errorf("ptypes: bad StateReadResult unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return r, nil
}

func marshalStateRead(s *StateReadPayload) []byte {
	var b []byte
	for _, k := range s.Keys {
		b = appendSubmessage(b, 1, marshalStateReadKey(k))
	}
	if s.Error != nil {
		b = appendSubmessage(b, 2, marshalProtoError(s.Error))
	}
	for _, r := range s.Results {
		b = appendSubmessage(b, 3, marshalStateReadResult(r))
	}
	return b
}

func unmarshalStateRead(b []byte) (*StateReadPayload, error) {
	s := &StateReadPayload{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad StateReadPayload tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateReadPayload.keys: %w", protowire.ParseError(n))
			}
			k, err := unmarshalStateReadKey(sub)
			if err != nil {
				return nil, err
			}
			s.Keys = append(s.Keys, k)
			b = b[n:]
		case 2:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateReadPayload.error: %w", protowire.ParseError(n))
			}
			pe, err := unmarshalProtoError(sub)
			if err != nil {
				return nil, err
			}
			s.Error = pe
			b = b[n:]
		case 3:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateReadPayload.results: %w", protowire.ParseError(n))
			}
			r, err := unmarshalStateReadResult(sub)
			if err != nil {
				return nil, err
			}
			s.Results = append(s.Results, r)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateReadPayload unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return s, nil
}

// ---- StateWritePayload {1:repeated sets,2:repeated deletes,3:error} ----

func marshalStateWriteSet(s StateWriteSet) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, s.Key)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, s.Value)
	return b
}

func unmarshalStateWriteSet(b []byte) (StateWriteSet, error) {
	var s StateWriteSet
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return s, fmt.Errorf("ptypes: bad StateWriteSet tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return s, fmt.Errorf("ptypes: bad StateWriteSet.key: %w", protowire.ParseError(n))
			}
			s.Key = append([]byte(nil), v...)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return s, fmt.Errorf("ptypes: bad StateWriteSet.value: %w", protowire.ParseError(n))
			}
			s.Value = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return s, fmt.Errorf("ptypes: bad StateWriteSet unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return s, nil
}

func marshalStateWrite(s *StateWritePayload) []byte {
	var b []byte
	for _, set := range s.Sets {
		b = appendSubmessage(b, 1, marshalStateWriteSet(set))
	}
	for _, del := range s.Deletes {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, del)
	}
	if s.Error != nil {
		b = appendSubmessage(b, 3, marshalProtoError(s.Error))
	}
	return b
}

func unmarshalStateWrite(b []byte) (*StateWritePayload, error) {
	s := &StateWritePayload{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad StateWritePayload tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateWritePayload.sets: %w", protowire.ParseError(n))
			}
			set, err := unmarshalStateWriteSet(sub)
			if err != nil {
				return nil, err
			}
			s.Sets = append(s.Sets, set)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateWritePayload.deletes: %w", protowire.ParseError(n))
			}
			s.Deletes = append(s.Deletes, append([]byte(nil), v...))
			b = b[n:]
		case 3:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateWritePayload.error: %w", protowire.ParseError(n))
			}
			pe, err := unmarshalProtoError(sub)
			if err != nil {
				return nil, err
			}
			s.Error = pe
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad StateWritePayload unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return s, nil
}

// ---- Account {1:address,2:amount}, Pool {1:id,2:amount}, FeeParams {1:sendFee} ----
// These are the values stored under state keys; the contract marshals and
// unmarshals them directly rather than routing through Envelope.

func MarshalAccount(a *Account) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, a.Address)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, a.Amount)
	return b
}

func UnmarshalAccount(b []byte) (*Account, error) {
	a := &Account{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad Account tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad Account.address: %w", protowire.ParseError(n))
			}
			a.Address = append([]byte(nil), v...)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad Account.amount: %w", protowire.ParseError(n))
			}
			a.Amount = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad Account unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return a, nil
}

func MarshalPool(p *Pool) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, p.ID)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, p.Amount)
	return b
}

func UnmarshalPool(b []byte) (*Pool, error) {
	p := &Pool{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad Pool tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad Pool.id: %w", protowire.ParseError(n))
			}
			p.ID = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad Pool.amount: %w", protowire.ParseError(n))
			}
			p.Amount = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad Pool unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return p, nil
}

func MarshalFeeParams(f *FeeParams) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, f.SendFee)
	return b
}

func UnmarshalFeeParams(b []byte) (*FeeParams, error) {
	f := &FeeParams{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("ptypes: bad FeeParams tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad FeeParams.sendFee: %w", protowire.ParseError(n))
			}
			f.SendFee = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("ptypes: bad FeeParams unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return f, nil
}
