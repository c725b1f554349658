// Copyright 2025 Certen Protocol

package config

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/certen/proofsuite/pkg/binding"
	"github.com/certen/proofsuite/pkg/engine"
	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
	"github.com/certen/proofsuite/pkg/registry"
	"github.com/certen/proofsuite/pkg/verify"
)

func TestDefaultAppliesLimits(t *testing.T) {
	cfg := Default()
	if cfg.Limits.VerificationKeyMaxBytes != 64*1024 {
		t.Errorf("got %d, want 65536", cfg.Limits.VerificationKeyMaxBytes)
	}
	if cfg.Limits.PublicInputsMaxBytes != 1*1024*1024 {
		t.Errorf("got %d, want 1048576", cfg.Limits.PublicInputsMaxBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate cleanly: %v", err)
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("PROOFSUITE_TEST_SKEW", "45s")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
freshness:
  - proof_type: ProximityHandshakeV1
    skew: ${PROOFSUITE_TEST_SKEW}
limits:
  verification_key_max_bytes: 2048
deprecated_types:
  - RoutingProofV1
`
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Freshness) != 1 || cfg.Freshness[0].Skew.AsDuration().Seconds() != 45 {
		t.Errorf("expected a 45s skew, got %+v", cfg.Freshness)
	}
	if cfg.Limits.VerificationKeyMaxBytes != 2048 {
		t.Errorf("got %d, want 2048", cfg.Limits.VerificationKeyMaxBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected a valid config: %v", err)
	}
}

func TestLoadUsesDefaultWhenEnvVarUnset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
freshness:
  - proof_type: TransportProofV1
    skew: ${PROOFSUITE_UNSET_VAR:-120s}
`
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Freshness[0].Skew.AsDuration().Seconds() != 120 {
		t.Errorf("expected the ${VAR:-default} fallback to apply, got %v", cfg.Freshness[0].Skew)
	}
}

func TestValidateRejectsUnknownProofType(t *testing.T) {
	cfg := Default()
	cfg.Freshness = append(cfg.Freshness, FreshnessSetting{ProofType: "NotARealType", Skew: Duration(1)})
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation to reject an unknown proof type name")
	}
}

func TestValidateRejectsNonPositiveSkew(t *testing.T) {
	cfg := Default()
	cfg.Freshness = append(cfg.Freshness, FreshnessSetting{ProofType: "ProximityHandshakeV1", Skew: Duration(0)})
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation to reject a non-positive freshness skew")
	}
}

func TestVerifyLimitsAppliesConfiguredCap(t *testing.T) {
	stubSign := func(key, msg []byte) []byte {
		h := sha256.Sum256(append(append([]byte{}, msg...), key...))
		out := make([]byte, 64)
		for i := range out {
			out[i] = h[i%len(h)]
		}
		return out
	}
	stubVerify := func(key, msg, sig []byte) bool {
		expected := stubSign(key, msg)
		if len(sig) != len(expected) {
			return false
		}
		for i := range sig {
			if sig[i] != expected[i] {
				return false
			}
		}
		return true
	}

	reg := registry.NewV1Suite(registry.V1Verifiers{Signature: stubVerify})
	did := make([]byte, 32)
	for i := range did {
		did[i] = 0x01
	}
	msg := binding.BuildIdentityBind(did)
	key := make([]byte, 32)
	for i := range key {
		key[i] = 0xAB
	}
	sig := stubSign(key, msg) // 64 bytes

	env, err := proofsuite.NewEnvelopeBuilder(prooftype.SignaturePopV1).
		WithVerificationKey(key).
		WithPublicInputs(msg).
		WithProofData(sig).
		Build(reg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	eng := engine.New(reg, verify.VerifyContext{})

	// With the suite's default caps (16 MiB proof_data), the envelope
	// verifies fine.
	if result, err := eng.VerifyEnvelope(env); err != nil || !result.Valid {
		t.Fatalf("expected the envelope to verify under default limits, got result=%v err=%v", result, err)
	}

	// An operator-configured cap tighter than the proof's own signature
	// size must be enforced by dispatch, not silently ignored.
	cfg := Default()
	cfg.Limits.ProofDataMaxBytes = 32
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	_, err = eng.VerifyEnvelope(env, engine.WithLimits(cfg.VerifyLimits()))
	if err == nil {
		t.Fatal("expected the configured 32-byte proof_data cap to reject a 64-byte signature")
	}
	var pe *proofsuite.ProofError
	if perr, ok := err.(*proofsuite.ProofError); ok {
		pe = perr
	}
	if pe == nil || pe.Kind != proofsuite.KindMalformedProof {
		t.Errorf("expected a MalformedProof rejection, got %v", err)
	}
}

func TestFreshnessSkewMapConvertsSeconds(t *testing.T) {
	cfg := Default()
	cfg.Freshness = []FreshnessSetting{{ProofType: "ProximityHandshakeV1", Skew: Duration(90_000_000_000)}} // 90s in nanoseconds
	m := cfg.FreshnessSkewMap()
	if len(m) != 1 {
		t.Fatalf("expected one entry, got %d", len(m))
	}
	for _, v := range m {
		if v != 90 {
			t.Errorf("got %d, want 90", v)
		}
	}
}
