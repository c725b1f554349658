// Copyright 2025 Certen Protocol
//
// A second concrete SignatureVerifier binding, alongside pkg/crypto/bls,
// using stdlib crypto/ed25519 directly against a caller-supplied public
// key, the way a governance-proof verifier typically checks a raw
// signature with no aggregation involved. Useful for deployments that
// don't need aggregate signatures and want a smaller dependency surface
// for one proof family.
package examplecrypto

import "crypto/ed25519"

// Ed25519Verify implements the registry.SignatureVerifier shape
// (key, msg, sig []byte) -> bool against a raw Ed25519 public key.
func Ed25519Verify(key, msg, sig []byte) bool {
	if len(key) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(key), msg, sig)
}

// Ed25519Sign is a convenience for tests: signs msg with a raw
// Ed25519 private key seed, returning the detached signature.
func Ed25519Sign(seed, msg []byte) ([]byte, ed25519.PublicKey, error) {
	priv := ed25519.NewKeyFromSeed(seed)
	return ed25519.Sign(priv, msg), priv.Public().(ed25519.PublicKey), nil
}
