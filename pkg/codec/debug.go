// Copyright 2025 Certen Protocol
//
// Debug-only textual rendering. MUST NOT be used as input to any hash,
// signature, or cross-process exchange — kept in its own file, with its own
// name (DebugRender, not String/MarshalJSON), specifically so nothing can
// reach it by accident from a signing path the way pervasive `json:"..."`
// struct tags on a wire type make it easy to marshal it for a purpose other
// than debugging.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/certen/proofsuite/pkg/proofsuite"
)

// DebugRender produces a human-readable dump of an envelope for logs and
// manual inspection only.
func DebugRender(e *proofsuite.ProofEnvelope) string {
	if e == nil {
		return "ProofEnvelope(nil)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ProofEnvelope{\n")
	fmt.Fprintf(&b, "  version:          %q\n", e.Version())
	fmt.Fprintf(&b, "  proof_type:       %s\n", e.ProofType())
	fmt.Fprintf(&b, "  did_version:      %q\n", e.DIDVersion())
	fmt.Fprintf(&b, "  circuit_hash:     %s\n", hexOrNone(e.CircuitHash()))
	fmt.Fprintf(&b, "  verification_key: %s (%d bytes)\n", hexOrNone(e.VerificationKey()), len(e.VerificationKey()))
	fmt.Fprintf(&b, "  public_inputs:    %s (%d bytes)\n", hexOrNone(e.PublicInputs()), len(e.PublicInputs()))
	fmt.Fprintf(&b, "  proof_data:       %s (%d bytes)\n", hexOrNone(e.ProofData()), len(e.ProofData()))
	b.WriteString("}")
	return b.String()
}

func hexOrNone(b []byte) string {
	if len(b) == 0 {
		return "<none>"
	}
	if len(b) > 32 {
		return hex.EncodeToString(b[:32]) + "..."
	}
	return hex.EncodeToString(b)
}
