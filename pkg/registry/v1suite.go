// Copyright 2025 Certen Protocol
//
// The V1 proof suite: required-field table for the thirteen proof types,
// wired to caller-supplied verifier handles. NewV1Suite is called once at
// process init by the embedding system, following a "construct the
// default, let callers override" pattern.
package registry

import (
	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
)

// V1Verifiers bundles the injected verifier handles the V1 suite needs. A
// caller may leave a field nil if it never constructs or verifies that
// proof type; Resolve will still succeed, and dispatch rejects an envelope
// whose branch needs the missing handle (UnknownCircuit for a nil Circuit,
// VerifierRejected for a nil Signature).
type V1Verifiers struct {
	Signature SignatureVerifier // used by every signature-style V1 type
	Circuit   CircuitVerifier   // used by IdentityAttributeZkV1 and the ZK branches
}

// NewV1Suite builds a Registry pre-populated with the thirteen V1 proof
// types and their required-field sets, key sizes left at 0 (meaning
// "caller decides", since the PQ algorithm and its key size are injected
// rather than fixed by this suite.
// Pass keySize > 0 via RegisterVersion directly if a deployment pins one
// fixed signature algorithm and wants KeySizeMismatch enforcement.
func NewV1Suite(v V1Verifiers) *Registry {
	r := New()

	type def struct {
		t               prooftype.ProofType
		required        proofsuite.FieldSet
		visibility      prooftype.Visibility
		circuit         bool // circuit_hash is structurally required and always dispatches to the circuit verifier
		circuitOptional bool // circuit_hash may or may not be present; dispatch picks the branch per envelope
	}

	defs := []def{
		{prooftype.SignaturePopV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Private, false, false},
		{prooftype.IdentityAttributeZkV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData | proofsuite.FieldCircuitHash, prooftype.Private, true, false},
		{prooftype.CredentialProofV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Private, false, false},
		{prooftype.DeviceDelegationV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Private, false, false},
		{prooftype.ProximityHandshakeV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Private, false, false},
		{prooftype.SessionKeyProofV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Private, false, false},
		{prooftype.StorageProofV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Public, false, false},
		{prooftype.RoutingProofV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Public, false, false},
		{prooftype.TransportProofV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Private, false, false},
		// SidTransactionV1, DaoTransactionV1, StateTransitionV1 have an
		// *optional* circuit_hash: registered without FieldCircuitHash in
		// Required since its presence is a per-envelope choice, not a
		// structural requirement. Both verifier handles are wired so
		// dispatch can resolve whichever branch a given envelope needs.
		{prooftype.SidTransactionV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Private, false, true},
		{prooftype.DaoTransactionV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Public, false, true},
		{prooftype.VotingV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Public, false, false},
		{prooftype.StateTransitionV1, proofsuite.FieldVerificationKey | proofsuite.FieldPublicInputs | proofsuite.FieldProofData, prooftype.Public, false, true},
	}

	for _, d := range defs {
		spec := ProofSpec{
			Required:   d.required,
			KeySize:    0,
			Visibility: d.visibility,
		}
		switch {
		case d.circuit:
			spec.Verifier = Verifier{Circuit: v.Circuit}
		case d.circuitOptional:
			spec.Verifier = Verifier{Signature: v.Signature, Circuit: v.Circuit}
		default:
			spec.Verifier = Verifier{Signature: v.Signature}
		}
		// NewV1Suite is the one place allowed to ignore RegisterVersion's
		// "already present" error: the V1 defs are compiled-in and
		// pairwise distinct by construction.
		_ = r.RegisterVersion(Key{Type: d.t, Version: proofsuite.Version}, spec)
	}

	return r
}
