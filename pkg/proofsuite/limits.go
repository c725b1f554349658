// Copyright 2025 Certen Protocol
//
// Hard upper bounds on envelope field sizes. Exceeding any of these yields
// MalformedProof before any cryptographic work begins.

package proofsuite

const (
	MaxVerificationKeySize = 64 * 1024        // 64 KiB
	MaxPublicInputsSize    = 1 * 1024 * 1024  // 1 MiB
	MaxProofDataSize       = 16 * 1024 * 1024 // 16 MiB
	MaxCircuitHashSize     = 128              // bytes

	// DefaultFreshnessSkew is the default allowed clock skew for
	// time-sensitive proof types (ProximityHandshakeV1, TransportProofV1).
	// Callers may override per verify call; this is the documented default.
	DefaultFreshnessSkew = 300 // seconds
)
