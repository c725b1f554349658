// Copyright 2025 Certen Protocol
//
// ProofEnvelope is the single structural container every proof inhabits.
// Construction enforces structural invariants at build time; accessors are
// read-only once built, following an immutable-proof-value idiom where the
// value is only ever assembled through a constructor, never field-by-field
// by callers.

package proofsuite

import "github.com/certen/proofsuite/pkg/prooftype"

// Version is the only envelope version this suite produces or accepts.
const Version = "v1"

// FieldSet is the set of optional/required structural fields a ProofSpec can
// demand, drawn from {verification_key, public_inputs, proof_data,
// circuit_hash}.
type FieldSet uint8

const (
	FieldVerificationKey FieldSet = 1 << iota
	FieldPublicInputs
	FieldProofData
	FieldCircuitHash
)

func (fs FieldSet) Has(f FieldSet) bool { return fs&f != 0 }

// ProofEnvelope is the universal, immutable proof container.
type ProofEnvelope struct {
	version          string
	proofType        prooftype.ProofType
	didVersion       string
	circuitHash      []byte
	verificationKey  []byte
	publicInputs     []byte
	proofData        []byte
}

func (e *ProofEnvelope) Version() string                { return e.version }
func (e *ProofEnvelope) ProofType() prooftype.ProofType  { return e.proofType }
func (e *ProofEnvelope) DIDVersion() string              { return e.didVersion }
func (e *ProofEnvelope) CircuitHash() []byte             { return cloneBytes(e.circuitHash) }
func (e *ProofEnvelope) VerificationKey() []byte         { return cloneBytes(e.verificationKey) }
func (e *ProofEnvelope) PublicInputs() []byte            { return cloneBytes(e.publicInputs) }
func (e *ProofEnvelope) ProofData() []byte               { return cloneBytes(e.proofData) }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Equal reports bit-exact structural equality, used by the codec round-trip
// property test (decode(encode(e)) == e).
func (e *ProofEnvelope) Equal(other *ProofEnvelope) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.version == other.version &&
		e.proofType == other.proofType &&
		e.didVersion == other.didVersion &&
		bytesEqual(e.circuitHash, other.circuitHash) &&
		bytesEqual(e.verificationKey, other.verificationKey) &&
		bytesEqual(e.publicInputs, other.publicInputs) &&
		bytesEqual(e.proofData, other.proofData)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SpecLookup is the minimal registry surface the builder needs: resolving
// required fields and key size for structural validation at construction
// time, without the envelope package importing the full registry package
// (the registry imports proofsuite for the envelope/spec types, not the
// reverse).
type SpecLookup interface {
	Lookup(t prooftype.ProofType, version string) (RequiredFields FieldSet, KeySize int, ok bool)
}

// EnvelopeBuilder assembles a ProofEnvelope, rejecting at construction time
// any combination that violates the resolved ProofSpec's requirements.
type EnvelopeBuilder struct {
	e   ProofEnvelope
	set FieldSet // fields explicitly populated via With* calls
}

// NewEnvelopeBuilder starts a builder for the given proof type, defaulting
// version and did_version to "v1" per spec invariants.
func NewEnvelopeBuilder(t prooftype.ProofType) *EnvelopeBuilder {
	return &EnvelopeBuilder{
		e: ProofEnvelope{
			version:    Version,
			proofType:  t,
			didVersion: Version,
		},
	}
}

func (b *EnvelopeBuilder) WithDIDVersion(v string) *EnvelopeBuilder {
	b.e.didVersion = v
	return b
}

func (b *EnvelopeBuilder) WithCircuitHash(h []byte) *EnvelopeBuilder {
	b.e.circuitHash = cloneBytes(h)
	b.set |= FieldCircuitHash
	return b
}

func (b *EnvelopeBuilder) WithVerificationKey(k []byte) *EnvelopeBuilder {
	b.e.verificationKey = cloneBytes(k)
	b.set |= FieldVerificationKey
	return b
}

func (b *EnvelopeBuilder) WithPublicInputs(pi []byte) *EnvelopeBuilder {
	b.e.publicInputs = cloneBytes(pi)
	b.set |= FieldPublicInputs
	return b
}

func (b *EnvelopeBuilder) WithProofData(pd []byte) *EnvelopeBuilder {
	b.e.proofData = cloneBytes(pd)
	b.set |= FieldProofData
	return b
}

// Build validates the assembled envelope against the resolved spec and
// returns the immutable envelope, or a structured error.
func (b *EnvelopeBuilder) Build(reg SpecLookup) (*ProofEnvelope, error) {
	if !b.e.proofType.Valid() {
		return nil, ErrUnknownType("proof type not registered", nil)
	}
	required, keySize, ok := reg.Lookup(b.e.proofType, b.e.version)
	if !ok {
		return nil, ErrUnknownType("no spec for (type, version)", nil)
	}

	if required.Has(FieldVerificationKey) {
		if !b.set.Has(FieldVerificationKey) || len(b.e.verificationKey) == 0 {
			return nil, ErrMalformedProof("verification_key required but absent", nil)
		}
		if keySize > 0 && len(b.e.verificationKey) != keySize {
			return nil, ErrKeySizeMismatch(
				"verification_key length does not match spec.key_size", nil)
		}
	}
	if required.Has(FieldPublicInputs) {
		if !b.set.Has(FieldPublicInputs) || len(b.e.publicInputs) == 0 {
			return nil, ErrMalformedProof("public_inputs required but absent", nil)
		}
	}
	if required.Has(FieldProofData) {
		if !b.set.Has(FieldProofData) || len(b.e.proofData) == 0 {
			return nil, ErrMalformedProof("proof_data required but absent", nil)
		}
	}
	if required.Has(FieldCircuitHash) {
		if !b.set.Has(FieldCircuitHash) || len(b.e.circuitHash) == 0 {
			return nil, ErrMalformedProof("circuit_hash required but absent", nil)
		}
	}

	if err := checkSizeLimits(&b.e); err != nil {
		return nil, err
	}

	out := b.e
	return &out, nil
}

func checkSizeLimits(e *ProofEnvelope) error {
	if len(e.verificationKey) > MaxVerificationKeySize {
		return ErrMalformedProof("verification_key exceeds size limit", nil)
	}
	if len(e.publicInputs) > MaxPublicInputsSize {
		return ErrMalformedProof("public_inputs exceeds size limit", nil)
	}
	if len(e.proofData) > MaxProofDataSize {
		return ErrMalformedProof("proof_data exceeds size limit", nil)
	}
	if len(e.circuitHash) > MaxCircuitHashSize {
		return ErrMalformedProof("circuit_hash exceeds size limit", nil)
	}
	return nil
}

// NewRawEnvelope constructs an envelope without registry validation. The
// codec's Decode path uses it, and so do test vectors that need an envelope
// the builder would refuse. Decode must be able to represent
// structurally-unvalidated (including Unrecognized-type) envelopes so that
// Verify, not Decode, is the place unknown types are rejected (spec
// "Unknown-type rejection" property).
func NewRawEnvelope(version string, t prooftype.ProofType, didVersion string, circuitHash, vk, pi, pd []byte) *ProofEnvelope {
	return &ProofEnvelope{
		version:         version,
		proofType:       t,
		didVersion:      didVersion,
		circuitHash:     cloneBytes(circuitHash),
		verificationKey: cloneBytes(vk),
		publicInputs:    cloneBytes(pi),
		proofData:       cloneBytes(pd),
	}
}
