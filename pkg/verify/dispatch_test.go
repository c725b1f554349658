// Copyright 2025 Certen Protocol

package verify

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/certen/proofsuite/pkg/binding"
	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
	"github.com/certen/proofsuite/pkg/registry"
)

func stubSign(key, msg []byte) []byte {
	h := sha256.Sum256(append(append([]byte{}, msg...), key...))
	out := make([]byte, 64)
	for i := range out {
		out[i] = h[i%len(h)]
	}
	return out
}

func stubVerify(key, msg, sig []byte) bool {
	want := stubSign(key, msg)
	if len(sig) != len(want) {
		return false
	}
	for i := range sig {
		if sig[i] != want[i] {
			return false
		}
	}
	return true
}

func bytesOf(n int, v byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newV1Registry() *registry.Registry {
	return registry.NewV1Suite(registry.V1Verifiers{
		Signature: stubVerify,
		Circuit:   func(ch, vk, pi, p []byte) bool { return true },
	})
}

// Scenario 1: SignaturePoP happy path.
func TestSignaturePopHappyPath(t *testing.T) {
	reg := newV1Registry()
	did := bytesOf(32, 0x01)
	key := bytesOf(32, 0xAB)
	msg := binding.BuildIdentityBind(did)
	sig := stubSign(key, msg)

	env, err := proofsuite.NewEnvelopeBuilder(prooftype.SignaturePopV1).
		WithVerificationKey(key).WithPublicInputs(msg).WithProofData(sig).Build(reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	result, err := VerifyIdentityBinding(env, did, reg, VerifyContext{})
	if err != nil {
		t.Fatalf("expected valid verification, got error: %v", err)
	}
	if !result.Valid {
		t.Error("expected Valid=true")
	}
}

// Scenario 2: version mismatch.
func TestVersionMismatchRejected(t *testing.T) {
	reg := newV1Registry()
	did := bytesOf(32, 0x01)
	key := bytesOf(32, 0xAB)
	msg := binding.BuildIdentityBind(did)
	sig := stubSign(key, msg)

	env := proofsuite.NewRawEnvelope("v2", prooftype.SignaturePopV1, proofsuite.Version, nil, key, msg, sig)

	_, err := VerifyEnvelope(env, reg, VerifyContext{}, nil)
	if err == nil {
		t.Fatal("expected an error for a mismatched envelope version")
	}
	var pe *proofsuite.ProofError
	if !errors.As(err, &pe) || pe.Kind != proofsuite.KindUnsupportedVersion {
		t.Errorf("expected KindUnsupportedVersion, got %v", err)
	}
}

// Scenario 3: unknown type after deserialization.
func TestUnknownTypeRejected(t *testing.T) {
	reg := newV1Registry()
	env := proofsuite.NewRawEnvelope(proofsuite.Version, prooftype.ProofType(250), proofsuite.Version,
		nil, bytesOf(32, 0x02), []byte("pi"), []byte("pd"))

	_, err := VerifyEnvelope(env, reg, VerifyContext{}, nil)
	if err == nil {
		t.Fatal("expected an error for an unregistered proof type")
	}
	var pe *proofsuite.ProofError
	if !errors.As(err, &pe) || pe.Kind != proofsuite.KindUnknownType {
		t.Errorf("expected KindUnknownType, got %v", err)
	}
}

// Scenario 4: storage proof stale epoch.
func TestStorageProofStaleEpochRejected(t *testing.T) {
	reg := newV1Registry()
	chunkHash := bytesOf(32, 0xAA)
	key := bytesOf(32, 0xCD)
	msg := binding.BuildStorageProof(chunkHash, 5)
	sig := stubSign(key, msg)

	env, err := proofsuite.NewEnvelopeBuilder(prooftype.StorageProofV1).
		WithVerificationKey(key).WithPublicInputs(msg).WithProofData(sig).Build(reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx := VerifyContext{AllowedStorageEpochs: map[uint64]bool{10: true, 11: true}}
	_, err = VerifyEnvelope(env, reg, ctx, nil)
	if err == nil {
		t.Fatal("expected an error for an epoch outside the allowed set")
	}
	var pe *proofsuite.ProofError
	if !errors.As(err, &pe) || pe.Kind != proofsuite.KindStalenessRejected {
		t.Errorf("expected KindStalenessRejected, got %v", err)
	}
}

func TestStorageProofWithinAllowedEpochSucceeds(t *testing.T) {
	reg := newV1Registry()
	chunkHash := bytesOf(32, 0xAA)
	key := bytesOf(32, 0xCD)
	msg := binding.BuildStorageProof(chunkHash, 10)
	sig := stubSign(key, msg)

	env, err := proofsuite.NewEnvelopeBuilder(prooftype.StorageProofV1).
		WithVerificationKey(key).WithPublicInputs(msg).WithProofData(sig).Build(reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx := VerifyContext{AllowedStorageEpochs: map[uint64]bool{10: true, 11: true}}
	result, err := VerifyEnvelope(env, reg, ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid {
		t.Error("expected Valid=true")
	}
}

// Scenario 5: cross-type confusion (a signature produced for one proof
// type's binding message must not verify against a different type's
// binding message built from the same underlying fields).
func TestCrossTypeConfusionRejected(t *testing.T) {
	reg := newV1Registry()
	messageHash := bytesOf(32, 0xEF)
	key := bytesOf(32, 0x11)

	routingMsg := binding.BuildRoutingProof(messageHash, nil)
	routingSig := stubSign(key, routingMsg)

	transportMsg := binding.BuildTransportSend(1_700_000_000, messageHash)

	env, err := proofsuite.NewEnvelopeBuilder(prooftype.TransportProofV1).
		WithVerificationKey(key).WithPublicInputs(transportMsg).WithProofData(routingSig).Build(reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx := VerifyContext{Now: func() uint64 { return 1_700_000_000 }}
	_, err = VerifyEnvelope(env, reg, ctx, nil)
	if err == nil {
		t.Fatal("expected the reused cross-type signature to be rejected")
	}
	var pe *proofsuite.ProofError
	if !errors.As(err, &pe) || pe.Kind != proofsuite.KindVerifierRejected {
		t.Errorf("expected KindVerifierRejected, got %v", err)
	}
}

// Scenario 6: oversize verification_key rejected before any crypto call.
func TestOversizeKeyRejectedBeforeVerifierInvoked(t *testing.T) {
	calls := 0
	countingVerify := func(key, msg, sig []byte) bool {
		calls++
		return stubVerify(key, msg, sig)
	}
	reg := registry.NewV1Suite(registry.V1Verifiers{Signature: countingVerify})

	did := bytesOf(32, 0x01)
	oversizedKey := bytesOf(65*1024, 0x01)
	msg := binding.BuildIdentityBind(did)
	sig := stubSign(oversizedKey, msg)

	env := proofsuite.NewRawEnvelope(proofsuite.Version, prooftype.SignaturePopV1, proofsuite.Version,
		nil, oversizedKey, msg, sig)

	_, err := VerifyEnvelope(env, reg, VerifyContext{}, nil)
	if err == nil {
		t.Fatal("expected rejection of an oversize verification_key")
	}
	var pe *proofsuite.ProofError
	if !errors.As(err, &pe) || pe.Kind != proofsuite.KindMalformedProof {
		t.Errorf("expected KindMalformedProof, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected the injected verifier to never be invoked, got %d calls", calls)
	}
}

// Deprecation is surfaced as a non-fatal warning, not a verification failure.
func TestDeprecatedSpecStillVerifiesWithWarning(t *testing.T) {
	reg := newV1Registry()
	key := registry.Key{Type: prooftype.RoutingProofV1, Version: proofsuite.Version}
	if err := reg.Deprecate(key); err != nil {
		t.Fatalf("deprecate: %v", err)
	}

	signerKey := bytesOf(32, 0x33)
	messageHash := bytesOf(32, 0x44)
	msg := binding.BuildRoutingProof(messageHash, nil)
	sig := stubSign(signerKey, msg)

	env, err := proofsuite.NewEnvelopeBuilder(prooftype.RoutingProofV1).
		WithVerificationKey(signerKey).WithPublicInputs(msg).WithProofData(sig).Build(reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	result, err := VerifyEnvelope(env, reg, VerifyContext{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid {
		t.Error("a deprecated spec must still verify")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected exactly one deprecation warning, got %d", len(result.Warnings))
	}
}

// SidTransactionV1 has an optional circuit_hash: a plain signature envelope
// and a circuit-bound envelope must both verify against the same registry
// entry, picking whichever verifier the envelope's own shape calls for.
func TestSidTransactionOptionalCircuitHashBothBranchesVerify(t *testing.T) {
	circuitCalls := 0
	reg := registry.NewV1Suite(registry.V1Verifiers{
		Signature: stubVerify,
		Circuit: func(ch, vk, pi, p []byte) bool {
			circuitCalls++
			return true
		},
	})

	recipientCommitment := bytesOf(32, 0x21)
	txContent := []byte("transfer 10 credits")
	commitment := binding.BuildSidTransactionCommitment(recipientCommitment, txContent)
	key := bytesOf(32, 0x22)
	sig := stubSign(key, commitment[:])

	plainEnv, err := proofsuite.NewEnvelopeBuilder(prooftype.SidTransactionV1).
		WithVerificationKey(key).WithPublicInputs(commitment[:]).WithProofData(sig).Build(reg)
	if err != nil {
		t.Fatalf("build plain envelope: %v", err)
	}
	if result, err := VerifyEnvelope(plainEnv, reg, VerifyContext{}, nil); err != nil || !result.Valid {
		t.Fatalf("expected the signature-only envelope to verify, got result=%v err=%v", result, err)
	}
	if circuitCalls != 0 {
		t.Errorf("expected the circuit verifier untouched by the signature branch, got %d calls", circuitCalls)
	}

	circuitHash := bytesOf(32, 0x33)
	zkEnv, err := proofsuite.NewEnvelopeBuilder(prooftype.SidTransactionV1).
		WithVerificationKey(key).WithPublicInputs(commitment[:]).WithProofData(sig).
		WithCircuitHash(circuitHash).Build(reg)
	if err != nil {
		t.Fatalf("build circuit-bound envelope: %v", err)
	}
	result, err := VerifyEnvelope(zkEnv, reg, VerifyContext{}, nil)
	if err != nil {
		t.Fatalf("expected the circuit-bound envelope to verify, got error: %v", err)
	}
	if !result.Valid {
		t.Error("expected Valid=true for the circuit-bound envelope")
	}
	if circuitCalls != 1 {
		t.Errorf("expected exactly one circuit verifier invocation, got %d", circuitCalls)
	}
}

func TestProximityHandshakeFreshnessWindow(t *testing.T) {
	reg := newV1Registry()
	did := bytesOf(32, 0x05)
	key := bytesOf(32, 0x06)
	ephemeralPK := bytesOf(32, 0x07)
	msg := binding.BuildProximityHandshake(did, 1_000_000, ephemeralPK)
	sig := stubSign(key, msg)

	env, err := proofsuite.NewEnvelopeBuilder(prooftype.ProximityHandshakeV1).
		WithVerificationKey(key).WithPublicInputs(msg).WithProofData(sig).Build(reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	tooFar := VerifyContext{Now: func() uint64 { return 1_000_000 + 301 }}
	if _, err := VerifyEnvelope(env, reg, tooFar, nil); err == nil {
		t.Error("expected staleness rejection outside the default ±300s window")
	}

	withinWindow := VerifyContext{Now: func() uint64 { return 1_000_000 + 299 }}
	result, err := VerifyEnvelope(env, reg, withinWindow, nil)
	if err != nil {
		t.Fatalf("unexpected error inside the freshness window: %v", err)
	}
	if !result.Valid {
		t.Error("expected Valid=true inside the freshness window")
	}
}
