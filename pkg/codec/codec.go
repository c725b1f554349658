// Copyright 2025 Certen Protocol
//
// Canonical binary codec for ProofEnvelope values, following RFC 8949's
// canonical CBOR form: shortest-form integers, definite-length containers
// only, and map keys sorted by their encoded byte form. This serves the same
// purpose as a canonical-JSON commitment encoder — deterministic bytes in,
// deterministic bytes out, so that two peers hashing or signing the same
// value always agree — generalized here to a binary form since proof
// envelopes are hashed and signed, never rendered to JSON on a production
// path.
package codec

import (
	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
)

// CBOR major types used by this codec (subset: uint, bytes, text, map).
const (
	majorUint = 0
	majorBytes = 2
	majorText  = 3
	majorMap   = 5
)

// field keys inside the envelope's canonical map, in ascending order; small
// non-negative integers encode to a single byte each in canonical CBOR and
// therefore sort in the same order as their numeric value, which is what
// lets the encoder simply emit them in this fixed order rather than
// re-sorting at encode time.
const (
	keyVersion         = 0
	keyProofType       = 1
	keyDIDVersion      = 2
	keyCircuitHash     = 3
	keyVerificationKey = 4
	keyPublicInputs    = 5
	keyProofData       = 6
)

// Encode serializes an envelope to its canonical binary form. Infallible on
// a structurally valid envelope.
func Encode(e *proofsuite.ProofEnvelope) []byte {
	var entries [][2][]byte

	entries = append(entries, kv(keyVersion, encodeText(e.Version())))
	entries = append(entries, kv(keyProofType, encodeUint(uint64(e.ProofType()))))
	entries = append(entries, kv(keyDIDVersion, encodeText(e.DIDVersion())))
	if ch := e.CircuitHash(); len(ch) > 0 {
		entries = append(entries, kv(keyCircuitHash, encodeBytes(ch)))
	}
	if vk := e.VerificationKey(); len(vk) > 0 {
		entries = append(entries, kv(keyVerificationKey, encodeBytes(vk)))
	}
	entries = append(entries, kv(keyPublicInputs, encodeBytes(e.PublicInputs())))
	entries = append(entries, kv(keyProofData, encodeBytes(e.ProofData())))

	out := encodeMapHeader(len(entries))
	for _, e := range entries {
		out = append(out, e[0]...)
		out = append(out, e[1]...)
	}
	return out
}

func kv(key int, val []byte) [2][]byte {
	return [2][]byte{encodeUint(uint64(key)), val}
}

// Decode parses bytes produced by Encode, rejecting any non-canonical input
// (non-minimal integers, unsorted map keys, indefinite-length containers)
// with proofsuite.ErrNonCanonical. The returned envelope is NOT registry
// validated — that is Verify's job, so that an envelope whose proof_type tag
// is unrecognized still decodes successfully (spec "unknown type after
// deserialization" scenario) instead of failing at the codec layer.
func Decode(data []byte) (*proofsuite.ProofEnvelope, error) {
	d := &decoder{buf: data}

	n, err := d.readMapHeader()
	if err != nil {
		return nil, err
	}

	var version, didVersion string
	var circuitHash, verificationKey, publicInputs, proofData []byte
	var proofTypeRaw uint64
	sawProofType := false
	lastKey := int64(-1)

	for i := 0; i < n; i++ {
		keyStart := d.pos
		key, err := d.readUint()
		if err != nil {
			return nil, err
		}
		_ = keyStart
		if int64(key) <= lastKey {
			return nil, proofsuite.ErrNonCanonical("map keys not strictly increasing", nil)
		}
		lastKey = int64(key)

		switch key {
		case keyVersion:
			version, err = d.readText()
		case keyProofType:
			proofTypeRaw, err = d.readUint()
			sawProofType = true
		case keyDIDVersion:
			didVersion, err = d.readText()
		case keyCircuitHash:
			circuitHash, err = d.readBytes()
		case keyVerificationKey:
			verificationKey, err = d.readBytes()
		case keyPublicInputs:
			publicInputs, err = d.readBytes()
		case keyProofData:
			proofData, err = d.readBytes()
		default:
			return nil, proofsuite.ErrMalformedProof("unknown field key in canonical map", nil)
		}
		if err != nil {
			return nil, err
		}
	}
	if !d.atEnd() {
		return nil, proofsuite.ErrNonCanonical("trailing bytes after envelope", nil)
	}
	if !sawProofType {
		return nil, proofsuite.ErrMalformedProof("missing proof_type field", nil)
	}

	pt := prooftype.ProofType(proofTypeRaw)
	if proofTypeRaw > 255 {
		pt = prooftype.Unrecognized
	} else if !pt.Valid() && proofTypeRaw != uint64(prooftype.Unrecognized) {
		pt = prooftype.Unrecognized
	}

	return proofsuite.NewRawEnvelope(version, pt, didVersion, circuitHash, verificationKey, publicInputs, proofData), nil
}
