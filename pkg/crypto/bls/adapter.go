// Copyright 2025 Certen Protocol

package bls

// SignatureVerifierFunc implements the registry.SignatureVerifier shape
// (key, msg, sig []byte) -> bool without importing pkg/registry here, to
// avoid a crypto-package-depends-on-engine-package cycle; callers assign it
// directly: registry.SignatureVerifier(bls.SignatureVerifierFunc).
func SignatureVerifierFunc(key, msg, sig []byte) bool {
	pk, err := PublicKeyFromBytes(key)
	if err != nil {
		return false
	}
	s, err := SignatureFromBytes(sig)
	if err != nil {
		return false
	}
	if !pk.IsValidPublicKey() || !s.IsValidSignature() {
		return false
	}
	return pk.Verify(s, msg)
}
