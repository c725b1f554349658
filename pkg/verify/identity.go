// Copyright 2025 Certen Protocol
//
// SignaturePopV1 is the mandatory identity-binding proof every other proof
// type may chain to explicitly; the engine performs no implicit chaining.
// VerifyIdentityBinding implements a four-step procedure layered on top of
// the generic VerifyEnvelope dispatch.
package verify

import (
	"bytes"

	"github.com/certen/proofsuite/pkg/binding"
	"github.com/certen/proofsuite/pkg/proofsuite"
	"github.com/certen/proofsuite/pkg/registry"
)

// VerifyIdentityBinding verifies that env is a valid SignaturePopV1 proof
// binding did to the key carried in the envelope, and that did passes the
// caller's injected DID-to-identity-root predicate.
func VerifyIdentityBinding(env *proofsuite.ProofEnvelope, did []byte, reg *registry.Registry, ctx VerifyContext) (*Result, error) {
	// Step 1: recompute the binding message from the asserted DID.
	expected := binding.BuildIdentityBind(did)

	// Step 2: confirm public_inputs == binding_message byte-equal. This
	// runs before the generic dispatch so a DID/key mismatch surfaces as
	// PolicyRejected rather than a generic VerifierRejected from the
	// signature check, which would also have failed but for the wrong
	// byte string.
	if !bytes.Equal(env.PublicInputs(), expected) {
		return nil, proofsuite.ErrPolicyRejected("public_inputs does not match recomputed identity binding message", nil)
	}

	// Step 3: invoke the signature verifier over
	// (verification_key, binding_message, proof_data) via the generic
	// dispatch path, which already does exactly this for SignaturePopV1.
	result, err := VerifyEnvelope(env, reg, ctx, noopPostCheck)
	if err != nil {
		return nil, err
	}

	// Step 4: confirm the caller's DID-to-identity-root check.
	if ctx.DidValidator != nil && !ctx.DidValidator(did) {
		return nil, proofsuite.ErrPolicyRejected("did failed identity-root validation", nil)
	}

	return result, nil
}

// noopPostCheck skips VerifyEnvelope's default freshness/epoch post-checks,
// which don't apply to SignaturePopV1 — its own policy check (step 4 above)
// runs after dispatch returns instead.
func noopPostCheck(env *proofsuite.ProofEnvelope, ctx *VerifyContext) error {
	return nil
}
