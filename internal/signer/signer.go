// Package signer recovers and produces personal-message signatures
// over 32-byte digests. Both the order-root signature and the backend
// batch authorization use this scheme, binding a plain secp256k1
// signature to the conventional "\x19Ethereum Signed Message:\n32"
// envelope.
package signer

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const signaturePrefix = "\x19Ethereum Signed Message:\n32"

var errSignatureLength = errors.New("signature must be 65 bytes")

// messageHash wraps a digest in the personal-message envelope.
func messageHash(digest common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte(signaturePrefix), digest[:])
}

// RecoverAddress returns the address that signed the given digest.
// The recovery byte is accepted in both the raw (0/1) and the legacy
// (27/28) convention.
func RecoverAddress(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, errSignatureLength
	}

	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pub, err := crypto.SigToPub(messageHash(digest).Bytes(), normalized)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyRootSignature reports whether the claimed owner produced the
// signature over the batch root.
func VerifyRootSignature(root common.Hash, sig []byte, owner common.Address) bool {
	recovered, err := RecoverAddress(root, sig)
	return err == nil && recovered == owner
}

// SignDigest signs a digest under the personal-message envelope. Used
// by tests and client tooling; the engine only verifies.
func SignDigest(digest common.Hash, key *ecdsa.PrivateKey) ([]byte, error) {
	return crypto.Sign(messageHash(digest).Bytes(), key)
}
