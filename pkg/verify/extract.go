// Copyright 2025 Certen Protocol
//
// Timestamp/epoch extraction helpers; replay protection itself stays the
// caller's responsibility. These parse the fixed field layout each builder
// in pkg/binding produces, since for signature-style proofs public_inputs
// is the binding message written verbatim.
package verify

import (
	"encoding/binary"

	"github.com/certen/proofsuite/pkg/binding"
)

// ExtractTimestamp pulls the big-endian u64 timestamp out of a
// ProximityHandshakeV1 or TransportProofV1 binding message. Returns ok=false
// if publicInputs doesn't match either known prefix.
func ExtractTimestamp(publicInputs []byte) (uint64, bool) {
	if rest, ok := trimPrefix(publicInputs, binding.PrefixProximityHandshake); ok {
		// PrefixProximityHandshake || len-prefixed did || u64 ts || len-prefixed ephemeral_pk
		didLen, rest, ok := readU32Len(rest)
		if !ok || len(rest) < int(didLen) {
			return 0, false
		}
		rest = rest[didLen:]
		return readU64(rest)
	}
	if rest, ok := trimPrefix(publicInputs, binding.PrefixTransportSend); ok {
		return readU64(rest)
	}
	if rest, ok := trimPrefix(publicInputs, binding.PrefixTransportRecv); ok {
		return readU64(rest)
	}
	return 0, false
}

// ExtractEpoch pulls the big-endian u64 epoch_id out of a StorageProofV1
// binding message.
func ExtractEpoch(publicInputs []byte) (uint64, bool) {
	rest, ok := trimPrefix(publicInputs, binding.PrefixStorageProof)
	if !ok {
		return 0, false
	}
	chunkLen, rest, ok := readU32Len(rest)
	if !ok || len(rest) < int(chunkLen) {
		return 0, false
	}
	rest = rest[chunkLen:]
	return readU64(rest)
}

func trimPrefix(b []byte, prefix string) ([]byte, bool) {
	if len(b) < len(prefix) || string(b[:len(prefix)]) != prefix {
		return nil, false
	}
	return b[len(prefix):], true
}

func readU32Len(b []byte) (uint32, []byte, bool) {
	if len(b) < 4 {
		return 0, nil, false
	}
	return binary.BigEndian.Uint32(b[:4]), b[4:], true
}

func readU64(b []byte) (uint64, bool) {
	if len(b) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(b[:8]), true
}
