// Copyright 2025 Certen Protocol
//
// Engine is a single type wrapping a Registry and default VerifyContext,
// exposing exactly the operations external callers need: a thin struct
// wrapping config plus a constructor, the way a unified verifier facade
// typically does.
package engine

import (
	"github.com/certen/proofsuite/pkg/codec"
	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
	"github.com/certen/proofsuite/pkg/registry"
	"github.com/certen/proofsuite/pkg/verify"
)

// Engine bundles a registry with the default verification policy.
type Engine struct {
	Registry   *registry.Registry
	DefaultCtx verify.VerifyContext
}

// New wraps an existing registry (typically registry.NewV1Suite's result)
// with a default VerifyContext.
func New(reg *registry.Registry, defaultCtx verify.VerifyContext) *Engine {
	return &Engine{Registry: reg, DefaultCtx: defaultCtx}
}

// RegisterSpec exposes registry.Registry.RegisterVersion under the name
// the engine facade gives it.
func (e *Engine) RegisterSpec(key registry.Key, spec registry.ProofSpec) error {
	return e.Registry.RegisterVersion(key, spec)
}

// DeprecateSpec exposes registry.Registry.Deprecate.
func (e *Engine) DeprecateSpec(key registry.Key) error {
	return e.Registry.Deprecate(key)
}

// EncodeEnvelope serializes an envelope to its canonical binary form.
func (e *Engine) EncodeEnvelope(env *proofsuite.ProofEnvelope) []byte {
	return codec.Encode(env)
}

// DecodeEnvelope parses canonical binary bytes into an envelope. The result
// is not registry-validated; call VerifyEnvelope to find out whether it is
// acceptable.
func (e *Engine) DecodeEnvelope(data []byte) (*proofsuite.ProofEnvelope, error) {
	return codec.Decode(data)
}

// VerifyEnvelope runs the full dispatch procedure using the engine's
// registry and default policy, optionally overridden per call via
// ContextOption values.
func (e *Engine) VerifyEnvelope(env *proofsuite.ProofEnvelope, opts ...ContextOption) (*verify.Result, error) {
	ctx := e.DefaultCtx
	for _, opt := range opts {
		opt(&ctx)
	}
	return verify.VerifyEnvelope(env, e.Registry, ctx, nil)
}

// VerifyIdentityBinding runs the SignaturePopV1-specific verification
// procedure.
func (e *Engine) VerifyIdentityBinding(env *proofsuite.ProofEnvelope, did []byte, opts ...ContextOption) (*verify.Result, error) {
	ctx := e.DefaultCtx
	for _, opt := range opts {
		opt(&ctx)
	}
	return verify.VerifyIdentityBinding(env, did, e.Registry, ctx)
}

// Visibility exposes the advisory classification for a proof type.
func (e *Engine) Visibility(t prooftype.ProofType) prooftype.Visibility {
	return e.Registry.Visibility(t)
}

// ContextOption adjusts a per-call copy of the engine's default
// VerifyContext without mutating engine state — verification has no
// ordering dependency between concurrent calls, so each call gets its own
// context value.
type ContextOption func(*verify.VerifyContext)

// WithAllowedStorageEpochs overrides the allowed StorageProofV1 epoch set
// for one call.
func WithAllowedStorageEpochs(epochs map[uint64]bool) ContextOption {
	return func(c *verify.VerifyContext) { c.AllowedStorageEpochs = epochs }
}

// WithNow overrides the time source for one call (tests, replay of
// historical vectors).
func WithNow(now func() uint64) ContextOption {
	return func(c *verify.VerifyContext) { c.Now = now }
}

// WithLimits overrides the structural field-size caps for one call, e.g.
// with config.VerifyConfig.VerifyLimits() loaded from an operator's YAML
// document.
func WithLimits(limits verify.Limits) ContextOption {
	return func(c *verify.VerifyContext) { c.Limits = limits }
}
