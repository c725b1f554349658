// Copyright 2025 Certen Protocol
//
// Structured error taxonomy for the proof suite engine. Every failure is
// surfaced as a *ProofError carrying a stable Kind discriminant; callers
// decide what is fatal. The engine never downgrades an error to a bare bool.

package proofsuite

import (
	"errors"
	"fmt"
)

// Kind is the stable discriminant for a verification or decode failure.
type Kind string

const (
	KindUnknownType        Kind = "unknown_type"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindMalformedProof     Kind = "malformed_proof"
	KindNonCanonical       Kind = "non_canonical"
	KindKeySizeMismatch    Kind = "key_size_mismatch"
	KindUnknownCircuit     Kind = "unknown_circuit"
	KindVerifierRejected   Kind = "verifier_rejected"
	KindStalenessRejected  Kind = "staleness_rejected"
	KindPolicyRejected     Kind = "policy_rejected"
	KindDeprecatedSpec     Kind = "deprecated_spec"
)

// ProofError is the engine's single error type. Kind is stable across
// versions; Msg and Err carry human-readable and wrapped detail.
type ProofError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *ProofError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ProofError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, proofsuite.SentinelMalformedProof) style sentinels match
// any ProofError of the same Kind, not just a specific instance.
func (e *ProofError) Is(target error) bool {
	var other *ProofError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newErr(kind Kind, msg string, cause error) *ProofError {
	return &ProofError{Kind: kind, Msg: msg, Err: cause}
}

func ErrUnknownType(msg string, cause error) *ProofError {
	return newErr(KindUnknownType, msg, cause)
}

func ErrUnsupportedVersion(msg string, cause error) *ProofError {
	return newErr(KindUnsupportedVersion, msg, cause)
}

func ErrMalformedProof(msg string, cause error) *ProofError {
	return newErr(KindMalformedProof, msg, cause)
}

func ErrNonCanonical(msg string, cause error) *ProofError {
	return newErr(KindNonCanonical, msg, cause)
}

func ErrKeySizeMismatch(msg string, cause error) *ProofError {
	return newErr(KindKeySizeMismatch, msg, cause)
}

func ErrUnknownCircuit(msg string, cause error) *ProofError {
	return newErr(KindUnknownCircuit, msg, cause)
}

func ErrVerifierRejected(msg string, cause error) *ProofError {
	return newErr(KindVerifierRejected, msg, cause)
}

func ErrStalenessRejected(msg string, cause error) *ProofError {
	return newErr(KindStalenessRejected, msg, cause)
}

func ErrPolicyRejected(msg string, cause error) *ProofError {
	return newErr(KindPolicyRejected, msg, cause)
}

// Sentinels usable with errors.Is(err, proofsuite.SentinelUnknownType) etc.
// without constructing a full ProofError at the call site.
var (
	SentinelUnknownType        = &ProofError{Kind: KindUnknownType}
	SentinelUnsupportedVersion = &ProofError{Kind: KindUnsupportedVersion}
	SentinelMalformedProof     = &ProofError{Kind: KindMalformedProof}
	SentinelNonCanonical       = &ProofError{Kind: KindNonCanonical}
	SentinelKeySizeMismatch    = &ProofError{Kind: KindKeySizeMismatch}
	SentinelUnknownCircuit     = &ProofError{Kind: KindUnknownCircuit}
	SentinelVerifierRejected   = &ProofError{Kind: KindVerifierRejected}
	SentinelStalenessRejected  = &ProofError{Kind: KindStalenessRejected}
	SentinelPolicyRejected     = &ProofError{Kind: KindPolicyRejected}
)

// DeprecationWarning is a non-fatal structured warning surfaced alongside a
// successful verification when the resolved spec is flagged deprecated.
type DeprecationWarning struct {
	Kind    Kind
	Message string
}

func (w *DeprecationWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
