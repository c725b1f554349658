// Copyright 2025 Certen Protocol

package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
)

func alwaysTrue(key, msg, sig []byte) bool { return true }

func TestRegisterVersionIsAppendOnly(t *testing.T) {
	reg := New()
	key := Key{Type: prooftype.SignaturePopV1, Version: proofsuite.Version}
	spec := ProofSpec{Required: proofsuite.FieldVerificationKey, KeySize: 32, Verifier: Verifier{Signature: alwaysTrue}}

	require.NoError(t, reg.RegisterVersion(key, spec))
	err := reg.RegisterVersion(key, spec)
	assert.Error(t, err, "re-registering the same key must fail")
}

func TestResolveUnknownType(t *testing.T) {
	reg := New()
	_, err := reg.Resolve(prooftype.SignaturePopV1, proofsuite.Version)
	require.Error(t, err)
	var pe *proofsuite.ProofError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, proofsuite.KindUnknownType, pe.Kind)
}

func TestDeprecatePreservesVerifiability(t *testing.T) {
	reg := New()
	key := Key{Type: prooftype.SignaturePopV1, Version: proofsuite.Version}
	spec := ProofSpec{Required: proofsuite.FieldVerificationKey, KeySize: 32, Verifier: Verifier{Signature: alwaysTrue}}
	require.NoError(t, reg.RegisterVersion(key, spec))

	require.NoError(t, reg.Deprecate(key))

	resolved, err := reg.Resolve(prooftype.SignaturePopV1, proofsuite.Version)
	require.NoError(t, err)
	assert.True(t, resolved.Deprecated)
	assert.NotNil(t, resolved.Verifier.Signature, "deprecation must not clear the verifier handle")
}

func TestDeprecateUnknownKeyFails(t *testing.T) {
	reg := New()
	err := reg.Deprecate(Key{Type: prooftype.SignaturePopV1, Version: proofsuite.Version})
	assert.Error(t, err)
}

func TestResolveReturnsACopyNotTheStoredPointer(t *testing.T) {
	reg := New()
	key := Key{Type: prooftype.SignaturePopV1, Version: proofsuite.Version}
	spec := ProofSpec{Required: proofsuite.FieldVerificationKey, KeySize: 32, Verifier: Verifier{Signature: alwaysTrue}}
	require.NoError(t, reg.RegisterVersion(key, spec))

	resolved, err := reg.Resolve(prooftype.SignaturePopV1, proofsuite.Version)
	require.NoError(t, err)
	resolved.Deprecated = true

	second, err := reg.Resolve(prooftype.SignaturePopV1, proofsuite.Version)
	require.NoError(t, err)
	assert.False(t, second.Deprecated, "mutating a resolved copy must not affect the stored spec")
}

func TestNewV1SuiteRegistersAllThirteenTypes(t *testing.T) {
	reg := NewV1Suite(V1Verifiers{Signature: alwaysTrue, Circuit: func(ch, vk, pi, p []byte) bool { return true }})
	entries := reg.List()
	assert.Len(t, entries, 13)
}

func TestIdentityAttributeZkV1RequiresCircuitHash(t *testing.T) {
	reg := NewV1Suite(V1Verifiers{Signature: alwaysTrue, Circuit: func(ch, vk, pi, p []byte) bool { return true }})
	spec, err := reg.Resolve(prooftype.IdentityAttributeZkV1, proofsuite.Version)
	require.NoError(t, err)
	assert.True(t, spec.Required.Has(proofsuite.FieldCircuitHash))
	assert.NotNil(t, spec.Verifier.Circuit)
	assert.Nil(t, spec.Verifier.Signature)
}

func TestOptionalCircuitHashTypesWireBothVerifiers(t *testing.T) {
	circuitVerifier := func(ch, vk, pi, p []byte) bool { return true }
	reg := NewV1Suite(V1Verifiers{Signature: alwaysTrue, Circuit: circuitVerifier})

	for _, pt := range []prooftype.ProofType{
		prooftype.SidTransactionV1,
		prooftype.DaoTransactionV1,
		prooftype.StateTransitionV1,
	} {
		spec, err := reg.Resolve(pt, proofsuite.Version)
		require.NoError(t, err)
		assert.False(t, spec.Required.Has(proofsuite.FieldCircuitHash), "%s: circuit_hash must stay optional", pt)
		assert.NotNil(t, spec.Verifier.Signature, "%s: signature verifier must be wired for the no-circuit-hash case", pt)
		assert.NotNil(t, spec.Verifier.Circuit, "%s: circuit verifier must be wired for the circuit_hash-present case", pt)
	}
}

func TestListIsSortedByTypeThenVersion(t *testing.T) {
	reg := NewV1Suite(V1Verifiers{Signature: alwaysTrue, Circuit: func(ch, vk, pi, p []byte) bool { return true }})
	entries := reg.List()
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].Key, entries[i].Key
		if prev.Type == cur.Type {
			assert.LessOrEqual(t, prev.Version, cur.Version)
		} else {
			assert.Less(t, prev.Type, cur.Type)
		}
	}
}
