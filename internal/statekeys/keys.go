// Package statekeys builds the byte-stable state-store keys the contract
// reads and writes through the protocol engine, and validates the address
// and amount primitives that feed them.
package statekeys

import "encoding/binary"

const (
	accountPrefix byte = 0x01
	poolPrefix    byte = 0x02
	paramsPrefix  byte = 0x07

	paramsSuffix = "/f/"

	// AddressLen is the fixed width of a raw account address.
	AddressLen = 20
)

// joinLengthPrefixed concatenates len(item) || item for every non-empty
// item, skipping empty items entirely (writing nothing for them). Each
// length is a single byte, so no item may exceed 255 bytes — true of every
// key component this plugin ever builds.
func joinLengthPrefixed(items ...[]byte) []byte {
	out := make([]byte, 0, 2*len(items))
	for _, item := range items {
		if len(item) == 0 {
			continue
		}
		out = append(out, byte(len(item)))
		out = append(out, item...)
	}
	return out
}

// KeyForAccount returns the state key an Account is stored under.
func KeyForAccount(addr []byte) []byte {
	return joinLengthPrefixed([]byte{accountPrefix}, addr)
}

// KeyForFeePool returns the state key the singleton fee Pool for chainID
// is stored under.
func KeyForFeePool(chainID uint64) []byte {
	return joinLengthPrefixed([]byte{poolPrefix}, FormatUint64(chainID))
}

// KeyForFeeParams returns the state key governance-controlled FeeParams are
// stored under.
func KeyForFeeParams() []byte {
	return joinLengthPrefixed([]byte{paramsPrefix}, []byte(paramsSuffix))
}

// FormatUint64 encodes v as 8 bytes big-endian.
func FormatUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// ParseUint64 decodes 8 big-endian bytes back into a uint64.
func ParseUint64(b []byte) (uint64, bool) {
	if len(b) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}

// ValidateAddress reports whether v is exactly AddressLen bytes.
func ValidateAddress(v []byte) bool {
	return len(v) == AddressLen
}

// ValidateAmount reports whether v is a non-zero amount. Amounts are
// already unsigned by Go type (uint64), so the only remaining check is
// strictly-greater-than-zero.
func ValidateAmount(v uint64) bool {
	return v > 0
}
