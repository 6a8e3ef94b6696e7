package authorizer

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/nmxlabs/marketplace-api/internal/signer"
	"github.com/nmxlabs/marketplace-api/internal/types"
)

const authorityKeyHex = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

var engineAddress = common.HexToAddress("0x00000000000000000000000000000000000AA001")

func testHashes() []common.Hash {
	return []common.Hash{
		crypto.Keccak256Hash([]byte("order-1")),
		crypto.Keccak256Hash([]byte("order-2")),
	}
}

func TestAuthorizeValidBatch(t *testing.T) {
	key, err := crypto.HexToECDSA(authorityKeyHex)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	authority := New(crypto.PubkeyToAddress(key.PublicKey), engineAddress, 31337)

	now := time.Now()
	hashes := testHashes()
	expiration := now.Add(10 * time.Minute).UnixMilli()

	digest, err := authority.BatchDigest(hashes, expiration)
	if err != nil {
		t.Fatalf("BatchDigest: %v", err)
	}
	sig, err := signer.SignDigest(digest, key)
	if err != nil {
		t.Fatalf("SignDigest: %v", err)
	}

	if err := authority.Authorize(hashes, expiration, sig, now); err != nil {
		t.Fatalf("valid authorization rejected: %v", err)
	}
}

// An expired window is rejected before the signature is even looked
// at, including when the signature is garbage.
func TestAuthorizeExpirationCheckedFirst(t *testing.T) {
	key, err := crypto.HexToECDSA(authorityKeyHex)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	authority := New(crypto.PubkeyToAddress(key.PublicKey), engineAddress, 31337)

	now := time.Now()
	hashes := testHashes()
	expiration := now.Add(-time.Minute).UnixMilli()

	digest, err := authority.BatchDigest(hashes, expiration)
	if err != nil {
		t.Fatalf("BatchDigest: %v", err)
	}
	validSig, err := signer.SignDigest(digest, key)
	if err != nil {
		t.Fatalf("SignDigest: %v", err)
	}

	tests := []struct {
		name string
		sig  []byte
	}{
		{"valid signature", validSig},
		{"garbage signature", make([]byte, 65)},
		{"empty signature", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authority.Authorize(hashes, expiration, tt.sig, now)
			if !errors.Is(err, types.ErrAuthorizationExpired) {
				t.Fatalf("got %v, expected AUTHORIZATION_EXPIRED", err)
			}
		})
	}
}

func TestAuthorizeRejectsWrongSigner(t *testing.T) {
	key, err := crypto.HexToECDSA(authorityKeyHex)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	strangerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	authority := New(crypto.PubkeyToAddress(key.PublicKey), engineAddress, 31337)

	now := time.Now()
	hashes := testHashes()
	expiration := now.Add(time.Minute).UnixMilli()

	digest, err := authority.BatchDigest(hashes, expiration)
	if err != nil {
		t.Fatalf("BatchDigest: %v", err)
	}
	sig, err := signer.SignDigest(digest, strangerKey)
	if err != nil {
		t.Fatalf("SignDigest: %v", err)
	}

	if err := authority.Authorize(hashes, expiration, sig, now); !errors.Is(err, types.ErrBadBatchSignature) {
		t.Fatalf("got %v, expected BAD_BATCH_SIGNATURE", err)
	}
}

// A signature over one hash set must not authorize a different set.
func TestAuthorizeRejectsTamperedHashes(t *testing.T) {
	key, err := crypto.HexToECDSA(authorityKeyHex)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	authority := New(crypto.PubkeyToAddress(key.PublicKey), engineAddress, 31337)

	now := time.Now()
	hashes := testHashes()
	expiration := now.Add(time.Minute).UnixMilli()

	digest, err := authority.BatchDigest(hashes, expiration)
	if err != nil {
		t.Fatalf("BatchDigest: %v", err)
	}
	sig, err := signer.SignDigest(digest, key)
	if err != nil {
		t.Fatalf("SignDigest: %v", err)
	}

	tampered := append([]common.Hash{}, hashes...)
	tampered[1] = crypto.Keccak256Hash([]byte("substituted"))

	if err := authority.Authorize(tampered, expiration, sig, now); !errors.Is(err, types.ErrBadBatchSignature) {
		t.Fatalf("got %v, expected BAD_BATCH_SIGNATURE", err)
	}
}

// The digest binds the engine identity and chain ID, so an
// authorization for one deployment cannot be replayed on another.
func TestBatchDigestBindsDeployment(t *testing.T) {
	key, err := crypto.HexToECDSA(authorityKeyHex)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	authorityAddr := crypto.PubkeyToAddress(key.PublicKey)

	hashes := testHashes()
	expiration := time.Now().Add(time.Minute).UnixMilli()

	base, err := New(authorityAddr, engineAddress, 31337).BatchDigest(hashes, expiration)
	if err != nil {
		t.Fatalf("BatchDigest: %v", err)
	}

	otherEngine, err := New(authorityAddr, common.HexToAddress("0x00000000000000000000000000000000000AA002"), 31337).BatchDigest(hashes, expiration)
	if err != nil {
		t.Fatalf("BatchDigest: %v", err)
	}
	otherChain, err := New(authorityAddr, engineAddress, 1).BatchDigest(hashes, expiration)
	if err != nil {
		t.Fatalf("BatchDigest: %v", err)
	}

	if base == otherEngine {
		t.Fatal("digest ignores the engine identity")
	}
	if base == otherChain {
		t.Fatal("digest ignores the chain ID")
	}
}
