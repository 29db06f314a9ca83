// Package ptypes defines the wire-level message shapes exchanged between
// the plugin and the host FSM, and the closed error taxonomy carried in
// those messages.
package ptypes

import "fmt"

// Kind is one member of the closed set of plugin error kinds. Kind values
// are wire-visible as ProtoError.Code and must never be renumbered.
type Kind uint32

const (
	KindUnspecified Kind = 0

	KindPluginTimeout          Kind = 1
	KindMarshal                Kind = 2
	KindUnmarshal              Kind = 3
	KindFailedPluginRead       Kind = 4
	KindFailedPluginWrite      Kind = 5
	KindInvalidPluginRespID    Kind = 6
	KindUnexpectedFSMToPlugin  Kind = 7
	KindInvalidFSMToPluginMsg  Kind = 8
	KindInsufficientFunds      Kind = 9
	KindFromAny                Kind = 10
	KindInvalidMessageCast     Kind = 11
	KindInvalidAddress         Kind = 12
	KindInvalidAmount          Kind = 13
	KindTxFeeBelowStateLimit   Kind = 14
)

// pluginModule is the fixed ProtoError.Module value for every error this
// plugin produces.
const pluginModule = "plugin"

// ProtoError is the wire error shape: {code, module, msg}.
type ProtoError struct {
	Code   uint32
	Module string
	Msg    string
}

func (e *ProtoError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s(code=%d): %s", e.Module, e.Code, e.Msg)
}

// Is reports whether err carries the same ProtoError.Code as this error,
// so callers can do errors.Is(err, ptypes.NewInsufficientFundsError()) style checks
// against the constructors below without comparing message text.
func (e *ProtoError) Is(target error) bool {
	other, ok := target.(*ProtoError)
	if !ok {
		return false
	}
	return e != nil && other != nil && e.Code == other.Code
}

func newErr(kind Kind, msg string) *ProtoError {
	return &ProtoError{Code: uint32(kind), Module: pluginModule, Msg: msg}
}

func NewTimeoutError() *ProtoError {
	return newErr(KindPluginTimeout, "a plugin timeout occurred")
}

func NewMarshalError(inner error) *ProtoError {
	return newErr(KindMarshal, fmt.Sprintf("marshal() failed with err: %v", inner))
}

func NewUnmarshalError(inner error) *ProtoError {
	return newErr(KindUnmarshal, fmt.Sprintf("unmarshal() failed with err: %v", inner))
}

func NewReadError(inner error) *ProtoError {
	return newErr(KindFailedPluginRead, fmt.Sprintf("a plugin read failed with err: %v", inner))
}

func NewWriteError(inner error) *ProtoError {
	return newErr(KindFailedPluginWrite, fmt.Sprintf("a plugin write failed with err: %v", inner))
}

func NewInvalidRespIDError() *ProtoError {
	return newErr(KindInvalidPluginRespID, "plugin response id is invalid")
}

func NewUnexpectedFSMToPluginError(msgType string) *ProtoError {
	return newErr(KindUnexpectedFSMToPlugin, fmt.Sprintf("unexpected FSM to plugin: %s", msgType))
}

func NewInvalidFSMToPluginError(msgType string) *ProtoError {
	return newErr(KindInvalidFSMToPluginMsg, fmt.Sprintf("invalid FSM to plugin: %s", msgType))
}

func NewInsufficientFundsError() *ProtoError {
	return newErr(KindInsufficientFunds, "insufficient funds")
}

func NewFromAnyError(inner error) *ProtoError {
	return newErr(KindFromAny, fmt.Sprintf("fromAny() failed with err: %v", inner))
}

func NewInvalidMessageCastError() *ProtoError {
	return newErr(KindInvalidMessageCast, "the message cast failed")
}

func NewInvalidAddressError() *ProtoError {
	return newErr(KindInvalidAddress, "address is invalid")
}

func NewInvalidAmountError() *ProtoError {
	return newErr(KindInvalidAmount, "amount is invalid")
}

func NewTxFeeBelowStateLimitError() *ProtoError {
	return newErr(KindTxFeeBelowStateLimit, "tx.fee is below state limit")
}

// FromPanic converts an unexpected, thrown error into the wire shape the
// engine falls back to when a handler panics.
func FromPanic(v any) *ProtoError {
	return &ProtoError{Code: uint32(KindPluginTimeout), Module: pluginModule, Msg: fmt.Sprintf("%v", v)}
}
