// Copyright 2025 Certen Protocol

package proofsuite

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorsIsMatchesByKindNotInstance(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrStalenessRejected("ts drift too large", nil))
	if !errors.Is(wrapped, SentinelStalenessRejected) {
		t.Error("errors.Is should match any ProofError sharing the same Kind")
	}
	if errors.Is(wrapped, SentinelPolicyRejected) {
		t.Error("errors.Is must not match a different Kind")
	}
}

func TestErrorsAsUnwrapsCause(t *testing.T) {
	cause := errors.New("underlying io failure")
	err := ErrMalformedProof("bad envelope", cause)

	var pe *ProofError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As should find the ProofError")
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the wrapped cause to errors.Is")
	}
}

func TestErrorMessageIncludesKind(t *testing.T) {
	err := ErrUnknownType("no such type", nil)
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected a non-empty error string")
	}
	if !strings.Contains(msg, string(KindUnknownType)) {
		t.Errorf("expected %q to include the kind %q", msg, KindUnknownType)
	}
}
