// Copyright 2025 Certen Protocol
//
// ProofType is the closed tagged enumeration every proof envelope carries.
// Unknown tags decode to Unrecognized and must never verify.

package prooftype

// ProofType is the closed enumeration of proof kinds the suite understands.
type ProofType uint8

const (
	Unrecognized ProofType = iota

	SignaturePopV1
	IdentityAttributeZkV1
	CredentialProofV1
	DeviceDelegationV1

	ProximityHandshakeV1
	SessionKeyProofV1

	StorageProofV1
	RoutingProofV1
	TransportProofV1

	SidTransactionV1

	DaoTransactionV1
	VotingV1
	StateTransitionV1

	maxProofType
)

// String renders the type for logs and debug output only.
func (t ProofType) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return "Unrecognized"
}

var names = map[ProofType]string{
	SignaturePopV1:        "SignaturePopV1",
	IdentityAttributeZkV1: "IdentityAttributeZkV1",
	CredentialProofV1:     "CredentialProofV1",
	DeviceDelegationV1:    "DeviceDelegationV1",
	ProximityHandshakeV1:  "ProximityHandshakeV1",
	SessionKeyProofV1:     "SessionKeyProofV1",
	StorageProofV1:        "StorageProofV1",
	RoutingProofV1:        "RoutingProofV1",
	TransportProofV1:      "TransportProofV1",
	SidTransactionV1:      "SidTransactionV1",
	DaoTransactionV1:      "DaoTransactionV1",
	VotingV1:              "VotingV1",
	StateTransitionV1:     "StateTransitionV1",
}

var byName = func() map[string]ProofType {
	m := make(map[string]ProofType, len(names))
	for t, n := range names {
		m[n] = t
	}
	return m
}()

// Parse resolves a name back to its ProofType; unknown names return
// Unrecognized, matching the decode-side contract (never a build error).
func Parse(name string) ProofType {
	if t, ok := byName[name]; ok {
		return t
	}
	return Unrecognized
}

// Valid reports whether t is one of the thirteen V1 variants (not Unrecognized).
func (t ProofType) Valid() bool {
	_, ok := names[t]
	return ok
}

// Visibility is an advisory classification for a proof type: whether it is
// expected to carry privacy-sensitive data, is always public by nature, or
// could go either way.
type Visibility uint8

const (
	Either Visibility = iota
	Private
	Public
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "Private"
	case Public:
		return "Public"
	default:
		return "Either"
	}
}

// DefaultVisibility returns the advisory classification for a V1 type.
func DefaultVisibility(t ProofType) Visibility {
	switch t {
	case SignaturePopV1, IdentityAttributeZkV1, CredentialProofV1, DeviceDelegationV1,
		ProximityHandshakeV1, SessionKeyProofV1, TransportProofV1, SidTransactionV1:
		return Private
	case StorageProofV1, RoutingProofV1, DaoTransactionV1, VotingV1, StateTransitionV1:
		return Public
	default:
		return Either
	}
}
