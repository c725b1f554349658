// Copyright 2025 Certen Protocol
//
// BindingMessage builders: one per proof type, each producing the exact byte
// string a signature or hash commitment is computed over. Field ordering is
// fixed per type; variable-length fields are length-prefixed to prevent
// ambiguity across concatenations.
package binding

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/certen/proofsuite/pkg/prooftype"
)

// Domain-separation prefixes, one fixed string per proof type.
const (
	PrefixIdentityBind       = "IDENTITY_BIND_V1:"
	PrefixDeviceDelegation   = "DEVICE_DELEGATION_V1"
	PrefixProximityHandshake = "PROXIMITY_HANDSHAKE_V1"
	PrefixSessionKey         = "SESSION_KEY_V1"
	PrefixStorageProof       = "STORAGE_PROOF_V1"
	PrefixRoutingProof       = "ROUTING_PROOF_V1"
	PrefixTransportSend      = "TRANSPORT_SEND_V1"
	PrefixTransportRecv      = "TRANSPORT_RECV_V1"
	PrefixStateTransition    = "STATE_TRANSITION_V1"
)

// tagAbsent/tagPresent implement the one-byte presence tag for optional
// fields inside a binding message.
const (
	tagAbsent  byte = 0x00
	tagPresent byte = 0x01
)

// --- low-level field writers, shared by every builder below ---

func putU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func putLenPrefixed(buf []byte, data []byte) []byte {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(data)))
	buf = append(buf, lenBytes[:]...)
	return append(buf, data...)
}

func putOptional(buf []byte, data []byte) []byte {
	if data == nil {
		return append(buf, tagAbsent)
	}
	buf = append(buf, tagPresent)
	return putLenPrefixed(buf, data)
}

// --- Identity & capability ---

// BuildIdentityBind produces "IDENTITY_BIND_V1:" || did for SignaturePopV1.
func BuildIdentityBind(did []byte) []byte {
	buf := []byte(PrefixIdentityBind)
	return append(buf, did...)
}

// BuildDeviceDelegation encodes (did, device_id, capability_scope) for
// DeviceDelegationV1. capability_scope is a sorted set of ASCII tokens: a
// duplicate or out-of-order input is rejected rather than silently
// re-sorted, to keep the canonical form reproducible only from canonical
// input.
func BuildDeviceDelegation(did, deviceID []byte, capabilityScope []string) ([]byte, error) {
	if err := requireSortedUnique(capabilityScope); err != nil {
		return nil, err
	}
	buf := []byte(PrefixDeviceDelegation)
	buf = putLenPrefixed(buf, did)
	buf = putLenPrefixed(buf, deviceID)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(capabilityScope)))
	scopeBuf := count[:]
	for _, tok := range capabilityScope {
		scopeBuf = putLenPrefixed(scopeBuf, []byte(tok))
	}
	return append(buf, scopeBuf...), nil
}

func requireSortedUnique(tokens []string) error {
	for i := 1; i < len(tokens); i++ {
		if tokens[i] <= tokens[i-1] {
			return fmt.Errorf("capability_scope must be sorted and unique: %q then %q", tokens[i-1], tokens[i])
		}
	}
	return nil
}

// SortCapabilityScope is a convenience for callers assembling a scope set
// from unordered input before calling BuildDeviceDelegation.
func SortCapabilityScope(tokens []string) []string {
	out := append([]string(nil), tokens...)
	sort.Strings(out)
	return out
}

// --- Proximity & session ---

// BuildProximityHandshake encodes did || ts || ephemeral_pk.
func BuildProximityHandshake(did []byte, ts uint64, ephemeralPK []byte) []byte {
	buf := []byte(PrefixProximityHandshake)
	buf = putLenPrefixed(buf, did)
	buf = putU64(buf, ts)
	buf = putLenPrefixed(buf, ephemeralPK)
	return buf
}

// BuildSessionKeyHalf encodes one party's half of a session-key proof: their
// own did, role tag, and ephemeral material. Each half is bound and verified
// independently; the caller cross-validates both.
func BuildSessionKeyHalf(did []byte, role string, material []byte) []byte {
	buf := []byte(PrefixSessionKey)
	buf = putLenPrefixed(buf, did)
	buf = putLenPrefixed(buf, []byte(role))
	buf = putLenPrefixed(buf, material)
	return buf
}

// --- Network & data ---

// BuildStorageProof encodes (chunk_hash, epoch_id).
func BuildStorageProof(chunkHash []byte, epochID uint64) []byte {
	buf := []byte(PrefixStorageProof)
	buf = putLenPrefixed(buf, chunkHash)
	buf = putU64(buf, epochID)
	return buf
}

// BuildRoutingProof encodes (message_hash, prev_sig) for the current hop.
func BuildRoutingProof(messageHash, prevSig []byte) []byte {
	buf := []byte(PrefixRoutingProof)
	buf = putLenPrefixed(buf, messageHash)
	buf = putOptional(buf, prevSig)
	return buf
}

// BuildTransportSend and BuildTransportRecv produce the two independently
// verifiable binding messages for TransportProofV1's send/recv halves: the
// sender and receiver each produce and bind their own envelope over the
// same payload hash rather than sharing one envelope.
func BuildTransportSend(ts uint64, payloadHash []byte) []byte {
	buf := []byte(PrefixTransportSend)
	buf = putU64(buf, ts)
	buf = putLenPrefixed(buf, payloadHash)
	return buf
}

func BuildTransportRecv(ts uint64, payloadHash []byte) []byte {
	buf := []byte(PrefixTransportRecv)
	buf = putU64(buf, ts)
	buf = putLenPrefixed(buf, payloadHash)
	return buf
}

// --- StateTransitionV1 ---

// BuildStateTransition encodes (old_root, new_root, batch_hash).
func BuildStateTransition(oldRoot, newRoot, batchHash []byte) []byte {
	buf := []byte(PrefixStateTransition)
	buf = putLenPrefixed(buf, oldRoot)
	buf = putLenPrefixed(buf, newRoot)
	buf = putLenPrefixed(buf, batchHash)
	return buf
}

// --- hash-commitment proofs: CredentialProofV1, IdentityAttributeZkV1,
// SidTransactionV1, DaoTransactionV1, VotingV1 ---
//
// These bind over hash(canonical(payload)) rather than a labeled prefix; the
// payload's first field is always the ProofType discriminant, so a payload
// built for one type can never collide with another.

// HashCommitmentPayload builds the discriminant-prefixed payload these
// types hash. fields are appended in the caller-supplied order, which must
// match the fixed field order documented for that proof type below.
func HashCommitmentPayload(t prooftype.ProofType, fields ...[]byte) []byte {
	buf := putU64(nil, uint64(t))
	for _, f := range fields {
		buf = putLenPrefixed(buf, f)
	}
	return buf
}

// BuildCredentialCommitment hashes (type, recipient_did, credential_body).
// The credential body MUST contain the recipient DID; it is also
// passed separately here so the commitment binds the recipient even if the
// body's internal encoding changes.
func BuildCredentialCommitment(recipientDID, credentialBody []byte) [32]byte {
	payload := HashCommitmentPayload(prooftype.CredentialProofV1, recipientDID, credentialBody)
	return sha256.Sum256(payload)
}

// BuildIdentityAttributeCommitment hashes (type, attribute_statement) for
// the ZK-circuit-bound IdentityAttributeZkV1 public_inputs.
func BuildIdentityAttributeCommitment(attributeStatement []byte) [32]byte {
	payload := HashCommitmentPayload(prooftype.IdentityAttributeZkV1, attributeStatement)
	return sha256.Sum256(payload)
}

// BuildSidTransactionCommitment hashes (type, recipient_commitment, tx_content).
// The recipient is always a commitment here; a caller wanting the
// recipient "in clear" hashes the DID bytes themselves and passes the
// result as recipientCommitment.
func BuildSidTransactionCommitment(recipientCommitment, txContent []byte) [32]byte {
	payload := HashCommitmentPayload(prooftype.SidTransactionV1, recipientCommitment, txContent)
	return sha256.Sum256(payload)
}

// BuildDaoTransactionCommitment hashes (type, payload) for DaoTransactionV1.
func BuildDaoTransactionCommitment(payload []byte) [32]byte {
	p := HashCommitmentPayload(prooftype.DaoTransactionV1, payload)
	return sha256.Sum256(p)
}

// BuildVotingCommitment hashes (type, proposal_id, choice, weight).
func BuildVotingCommitment(proposalID []byte, choice byte, weight uint64) [32]byte {
	var weightBuf []byte
	weightBuf = putU64(weightBuf, weight)
	payload := HashCommitmentPayload(prooftype.VotingV1, proposalID, []byte{choice}, weightBuf)
	return sha256.Sum256(payload)
}
