// Copyright 2025 Certen Protocol
//
// Verifier dispatch: the engine's single entry point for turning an
// envelope into Valid or a structured Invalid(reason), following a
// multi-step procedure modeled as a pure function of
// (bundle, config, injected crypto) with no internal I/O or retries.
package verify

import (
	"fmt"
	"time"

	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
	"github.com/certen/proofsuite/pkg/registry"
)

// VerifyContext carries the caller-supplied policy and the injected
// collaborators dispatch needs. Freshness windows default to
// proofsuite.DefaultFreshnessSkew (±300s) when a type-specific override is
// absent.
type VerifyContext struct {
	// Now supplies the current time for freshness checks (TimeSource).
	// Defaults to time.Now if nil.
	Now func() uint64

	// FreshnessSkew overrides the default ±300s window per proof type.
	// ProximityHandshakeV1 and TransportProofV1 are the time-sensitive
	// types this applies to.
	FreshnessSkew map[prooftype.ProofType]uint64

	// AllowedStorageEpochs is the caller-supplied set of epochs a
	// StorageProofV1's epoch_id must fall within.
	AllowedStorageEpochs map[uint64]bool

	// DidValidator is the injected DID-to-identity-root predicate
	// SignaturePopV1 verification invokes.
	DidValidator func(did []byte) bool

	// Limits overrides the suite's compiled-in field-size caps
	// (proofsuite.Max*Size) with operator-configured values, e.g. from
	// config.VerifyConfig.Limits. A zero field falls back to the
	// corresponding proofsuite.Max*Size default.
	Limits Limits
}

// Limits are the structural field-size caps validateStructure enforces
// before any cryptographic work begins. A zero value for any field means
// "use the suite's compiled-in default".
type Limits struct {
	VerificationKeyMaxBytes int
	PublicInputsMaxBytes    int
	ProofDataMaxBytes       int
	CircuitHashMaxBytes     int
}

func (c *VerifyContext) verificationKeyMax() int {
	if c.Limits.VerificationKeyMaxBytes > 0 {
		return c.Limits.VerificationKeyMaxBytes
	}
	return proofsuite.MaxVerificationKeySize
}

func (c *VerifyContext) publicInputsMax() int {
	if c.Limits.PublicInputsMaxBytes > 0 {
		return c.Limits.PublicInputsMaxBytes
	}
	return proofsuite.MaxPublicInputsSize
}

func (c *VerifyContext) proofDataMax() int {
	if c.Limits.ProofDataMaxBytes > 0 {
		return c.Limits.ProofDataMaxBytes
	}
	return proofsuite.MaxProofDataSize
}

func (c *VerifyContext) circuitHashMax() int {
	if c.Limits.CircuitHashMaxBytes > 0 {
		return c.Limits.CircuitHashMaxBytes
	}
	return proofsuite.MaxCircuitHashSize
}

func (c *VerifyContext) now() uint64 {
	if c.Now != nil {
		return c.Now()
	}
	return uint64(time.Now().Unix())
}

func (c *VerifyContext) skewFor(t prooftype.ProofType) uint64 {
	if c.FreshnessSkew != nil {
		if v, ok := c.FreshnessSkew[t]; ok {
			return v
		}
	}
	return proofsuite.DefaultFreshnessSkew
}

// Result is the outcome of a successful dispatch: Valid, plus any
// non-fatal warnings (deprecation).
type Result struct {
	Valid    bool
	Warnings []*proofsuite.DeprecationWarning
}

// TimestampExtractor is the shape of the timestamp extraction helpers the
// engine exposes so callers can implement their own replay protection; the
// engine itself tracks no state across calls.
type TimestampExtractor func(publicInputs []byte) (ts uint64, ok bool)

// VerifyEnvelope resolves the registered spec, validates structure, invokes
// the injected verifier, and applies type-specific post-checks. It never
// degrades an unknown type to a bare boolean — an unrecognized proof type
// is always a distinguishable, structured rejection.
func VerifyEnvelope(env *proofsuite.ProofEnvelope, reg *registry.Registry, ctx VerifyContext, typeCheck TypeSpecificCheck) (*Result, error) {
	if env == nil {
		return nil, proofsuite.ErrMalformedProof("nil envelope", nil)
	}

	// Step 1: resolve spec by proof_type against the suite's current
	// registry generation ("v1"), independent of the envelope's own
	// asserted version field. This is what lets step 2 distinguish
	// UnknownType from UnsupportedVersion instead of collapsing both into
	// one lookup miss.
	spec, err := reg.Resolve(env.ProofType(), proofsuite.Version)
	if err != nil {
		return nil, err
	}

	// Step 2: confirm version == "v1".
	if env.Version() != proofsuite.Version {
		return nil, proofsuite.ErrUnsupportedVersion(
			fmt.Sprintf("envelope version %q is not %q", env.Version(), proofsuite.Version), nil)
	}

	// Step 3: validate structural requirements (size limits first, before
	// any cryptographic call).
	if err := validateStructure(env, spec, &ctx); err != nil {
		return nil, err
	}

	// Step 4: resolve circuit verifier if circuit-bound.
	var circuitOK bool
	if env.ProofType() == prooftype.IdentityAttributeZkV1 || len(env.CircuitHash()) > 0 {
		if spec.Verifier.Circuit == nil {
			return nil, proofsuite.ErrUnknownCircuit("no circuit verifier registered for this spec", nil)
		}
		// Step 5 (circuit branch): invoke the injected circuit verifier.
		circuitOK = spec.Verifier.Circuit(env.CircuitHash(), env.VerificationKey(), env.PublicInputs(), env.ProofData())
		if !circuitOK {
			return nil, proofsuite.ErrVerifierRejected("circuit verifier rejected proof", nil)
		}
	} else {
		if spec.Verifier.Signature == nil {
			return nil, proofsuite.ErrVerifierRejected("no signature verifier registered for this spec", nil)
		}
		// Step 5 (signature branch): invoke the injected signature verifier.
		if !spec.Verifier.Signature(env.VerificationKey(), env.PublicInputs(), env.ProofData()) {
			return nil, proofsuite.ErrVerifierRejected("signature verifier rejected proof", nil)
		}
	}

	// Step 6: type-specific post-checks (freshness windows, epoch sets,
	// capability scope policy, ...). Delegated to typeCheck so that
	// per-type rules (including caller-supplied PolicyRejected checks)
	// live next to their binding builders rather than bloating dispatch.
	if typeCheck != nil {
		if err := typeCheck(env, &ctx); err != nil {
			return nil, err
		}
	} else if err := defaultPostChecks(env, &ctx); err != nil {
		return nil, err
	}

	result := &Result{Valid: true}
	// Step 7: deprecation warning is non-fatal.
	if spec.Deprecated {
		result.Warnings = append(result.Warnings, &proofsuite.DeprecationWarning{
			Kind:    proofsuite.KindDeprecatedSpec,
			Message: fmt.Sprintf("%s/%s is deprecated", env.ProofType(), env.Version()),
		})
	}
	return result, nil
}

// TypeSpecificCheck lets a caller supply (or override) the post-verifier
// policy checks for a given envelope. Passing nil uses defaultPostChecks,
// which implements the suite's built-in freshness/epoch rules.
type TypeSpecificCheck func(env *proofsuite.ProofEnvelope, ctx *VerifyContext) error

func validateStructure(env *proofsuite.ProofEnvelope, spec *registry.ProofSpec, ctx *VerifyContext) error {
	if spec.Required.Has(proofsuite.FieldVerificationKey) {
		if len(env.VerificationKey()) == 0 {
			return proofsuite.ErrMalformedProof("verification_key required but absent", nil)
		}
		if len(env.VerificationKey()) > ctx.verificationKeyMax() {
			return proofsuite.ErrMalformedProof("verification_key exceeds size limit", nil)
		}
		if spec.KeySize > 0 && len(env.VerificationKey()) != spec.KeySize {
			return proofsuite.ErrKeySizeMismatch("verification_key length does not match spec.key_size", nil)
		}
	}
	if len(env.PublicInputs()) == 0 {
		return proofsuite.ErrMalformedProof("public_inputs required but absent", nil)
	}
	if len(env.PublicInputs()) > ctx.publicInputsMax() {
		return proofsuite.ErrMalformedProof("public_inputs exceeds size limit", nil)
	}
	if len(env.ProofData()) == 0 {
		return proofsuite.ErrMalformedProof("proof_data required but absent", nil)
	}
	if len(env.ProofData()) > ctx.proofDataMax() {
		return proofsuite.ErrMalformedProof("proof_data exceeds size limit", nil)
	}
	if len(env.CircuitHash()) > ctx.circuitHashMax() {
		return proofsuite.ErrMalformedProof("circuit_hash exceeds size limit", nil)
	}
	if spec.Required.Has(proofsuite.FieldCircuitHash) && len(env.CircuitHash()) == 0 {
		return proofsuite.ErrMalformedProof("circuit_hash required but absent", nil)
	}
	return nil
}

// defaultPostChecks implements the staleness rules for the suite's
// built-in types when no caller override is supplied. It has no knowledge
// of application semantics (capability scope, eligibility, double-vote
// detection) — those stay caller duties.
func defaultPostChecks(env *proofsuite.ProofEnvelope, ctx *VerifyContext) error {
	switch env.ProofType() {
	case prooftype.ProximityHandshakeV1, prooftype.TransportProofV1:
		ts, ok := ExtractTimestamp(env.PublicInputs())
		if !ok {
			return nil // builder-specific layout; caller-supplied typeCheck should handle if needed
		}
		skew := ctx.skewFor(env.ProofType())
		now := ctx.now()
		diff := int64(now) - int64(ts)
		if diff < 0 {
			diff = -diff
		}
		if uint64(diff) > skew {
			return proofsuite.ErrStalenessRejected(
				fmt.Sprintf("timestamp %d outside ±%ds window of now=%d", ts, skew, now), nil)
		}
	case prooftype.StorageProofV1:
		if ctx.AllowedStorageEpochs == nil {
			return nil
		}
		epoch, ok := ExtractEpoch(env.PublicInputs())
		if !ok {
			return nil
		}
		if !ctx.AllowedStorageEpochs[epoch] {
			return proofsuite.ErrStalenessRejected(
				fmt.Sprintf("epoch %d not in caller-supplied allowed set", epoch), nil)
		}
	}
	return nil
}
