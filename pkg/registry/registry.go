// Copyright 2025 Certen Protocol
//
// Registry is the authoritative (proof_type, version) -> ProofSpec mapping.
// It is built once at process init with the V1 suite, then is append-only:
// new versions may be registered, existing entries may only flip
// `deprecated = true`. Reader/writer discipline follows a lifecycle-manager
// idiom: guard mutable state with a sync.RWMutex, take the write lock only
// for registration and deprecation.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/proofsuite"
)

// SignatureVerifier is injected by the embedding system: the post-quantum
// (or stub, for tests) signature algorithm.
type SignatureVerifier func(key, msg, sig []byte) bool

// CircuitVerifier is injected by the embedding system: a zero-knowledge
// verifier keyed by circuit_hash.
type CircuitVerifier func(circuitHash, vk, publicInputs, proof []byte) bool

// Verifier is the handle a ProofSpec carries. A spec that requires a
// circuit_hash sets Circuit, a plain signature-style spec sets Signature,
// and a spec whose circuit_hash is optional sets both so dispatch can pick
// the branch per envelope.
type Verifier struct {
	Signature SignatureVerifier
	Circuit   CircuitVerifier
}

// Key identifies a registry entry.
type Key struct {
	Type    prooftype.ProofType
	Version string
}

// ProofSpec is the registry value.
type ProofSpec struct {
	Required   proofsuite.FieldSet
	KeySize    int
	Verifier   Verifier
	Visibility prooftype.Visibility
	Deprecated bool
}

// Registry is the process-wide mapping, safe for concurrent lookups; writes
// (Register/Deprecate) take the exclusive lock.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]*ProofSpec
}

// New returns an empty registry. Use NewV1Suite to get the pre-populated
// V1 registry expected at process init.
func New() *Registry {
	return &Registry{entries: make(map[Key]*ProofSpec)}
}

// Lookup resolves a (type, version) to its spec. Implements
// proofsuite.SpecLookup so the envelope builder can validate structural
// requirements without importing this package's full surface.
func (r *Registry) Lookup(t prooftype.ProofType, version string) (proofsuite.FieldSet, int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.entries[Key{Type: t, Version: version}]
	if !ok {
		return 0, 0, false
	}
	return spec.Required, spec.KeySize, true
}

// Resolve returns the full spec (including the verifier handle), used by
// dispatch.
func (r *Registry) Resolve(t prooftype.ProofType, version string) (*ProofSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.entries[Key{Type: t, Version: version}]
	if !ok {
		return nil, proofsuite.ErrUnknownType(
			fmt.Sprintf("no spec registered for %s/%s", t, version), nil)
	}
	// Return a copy so callers can't mutate the stored spec through the
	// pointer; Deprecate is the only sanctioned mutation path.
	cp := *spec
	return &cp, nil
}

// RegisterVersion adds a new (type, version) entry. Fails if the key is
// already present — the registry is append-only during runtime.
func (r *Registry) RegisterVersion(key Key, spec ProofSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("registry: (%s, %s) already registered", key.Type, key.Version)
	}
	cp := spec
	r.entries[key] = &cp
	return nil
}

// Deprecate flips the deprecated flag on an existing entry; the spec
// remains fully verifiable, only the flag changes.
func (r *Registry) Deprecate(key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	spec, ok := r.entries[key]
	if !ok {
		return fmt.Errorf("registry: (%s, %s) not registered", key.Type, key.Version)
	}
	spec.Deprecated = true
	return nil
}

// Visibility returns the advisory classification for a registered type, or
// prooftype.Either if no entry exists for the default "v1" version.
func (r *Registry) Visibility(t prooftype.ProofType) prooftype.Visibility {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if spec, ok := r.entries[Key{Type: t, Version: proofsuite.Version}]; ok {
		return spec.Visibility
	}
	return prooftype.Either
}

// Entry is a read-only snapshot of a registered (type, version, spec) used
// by List.
type Entry struct {
	Key  Key
	Spec ProofSpec
}

// List returns every registered entry, sorted by type then version, for
// introspection of what the suite supports.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for k, v := range r.entries {
		out = append(out, Entry{Key: k, Spec: *v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Type != out[j].Key.Type {
			return out[i].Key.Type < out[j].Key.Type
		}
		return out[i].Key.Version < out[j].Key.Version
	})
	return out
}
