// Copyright 2025 Certen Protocol
//
// Groth16 circuit verification, adapted from a BLS zero-knowledge prover's
// local verify routine (VerifyProofLocally). Only the verify side is kept:
// generating a zero-knowledge proof is out of scope here, so the prover and
// its Solidity calldata export are not carried over. What remains is the
// part every embedder of this suite actually needs: a concrete
// implementation of the injected registry.CircuitVerifier handle for
// IdentityAttributeZkV1 and the ZK branches of
// SidTransactionV1/StateTransitionV1.
package circuitverify

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
)

// fieldElementSize is the byte width a public input occupies when packed
// into public_inputs; callers building the statement pack each field
// element as a fixed-width big-endian integer of this size.
const fieldElementSize = 32

// Verifier wraps a single pairing curve's Groth16 verification routine as
// the registry.CircuitVerifier function signature
// (circuit_hash, vk, public_inputs, proof) -> bool. circuit_hash itself is
// opaque to Verify — it is the caller's job to only ever route a given
// circuit_hash's envelopes to a Verifier built for the matching curve; a
// mismatched curve simply fails to deserialize and Verify returns false.
type Verifier struct {
	Curve ecc.ID
}

// New returns a Verifier bound to curve, e.g. ecc.BN254 for a circuit
// family built around BN254 groth16.
func New(curve ecc.ID) *Verifier {
	return &Verifier{Curve: curve}
}

// Verify implements registry.CircuitVerifier. circuitHash is accepted but
// unused by this generic adapter — a deployment with multiple circuits of
// differing public-input layouts would key a map of *Verifier (or of
// circuit-specific witness builders) by circuit_hash instead; that
// dispatch lives in the embedding system, not in this core engine.
func (v *Verifier) Verify(circuitHash, vk, publicInputs, proof []byte) bool {
	if len(vk) == 0 || len(proof) == 0 || len(publicInputs) == 0 {
		return false
	}
	if len(publicInputs)%fieldElementSize != 0 {
		return false
	}

	verifyingKey := groth16.NewVerifyingKey(v.Curve)
	if _, err := verifyingKey.ReadFrom(bytes.NewReader(vk)); err != nil {
		return false
	}

	proofObj := groth16.NewProof(v.Curve)
	if _, err := proofObj.ReadFrom(bytes.NewReader(proof)); err != nil {
		return false
	}

	pub, err := publicWitness(v.Curve, publicInputs)
	if err != nil {
		return false
	}

	return groth16.Verify(proofObj, verifyingKey, pub) == nil
}

// publicWitness packs the fixed-width field elements in publicInputs into a
// gnark public witness for the given curve's scalar field.
func publicWitness(curve ecc.ID, publicInputs []byte) (witness.Witness, error) {
	n := len(publicInputs) / fieldElementSize
	values := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		chunk := publicInputs[i*fieldElementSize : (i+1)*fieldElementSize]
		values[i] = new(big.Int).SetBytes(chunk)
	}

	w, err := witness.New(curve.ScalarField())
	if err != nil {
		return nil, err
	}
	ch := make(chan any)
	go func() {
		defer close(ch)
		for _, v := range values {
			ch <- v
		}
	}()
	if err := w.Fill(n, 0, ch); err != nil {
		return nil, err
	}
	return w, nil
}
