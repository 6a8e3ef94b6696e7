// Package authorizer validates the backend authority's time-boxed
// attestation over a batch of order hashes.
//
// The attestation is a second, independent trust boundary: the owner's
// root signature proves order authenticity, while the backend
// signature attests that business rules were checked for exactly this
// set of hashes and this time window. The digest binds the engine
// identity and chain ID so an authorization cannot be replayed against
// another deployment.
package authorizer

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"

	"github.com/nmxlabs/marketplace-api/internal/signer"
	"github.com/nmxlabs/marketplace-api/internal/types"
)

var batchArgs abi.Arguments

func init() {
	uint256Ty, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	addressTy, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	hashesTy, err := abi.NewType("bytes32[]", "", nil)
	if err != nil {
		panic(err)
	}
	batchArgs = abi.Arguments{
		{Type: uint256Ty}, {Type: addressTy}, {Type: uint256Ty}, {Type: hashesTy},
	}
}

// Authorizer checks batch signatures against one configured backend
// authority.
type Authorizer struct {
	authority common.Address
	engine    common.Address
	chainID   *big.Int
}

func New(authority, engine common.Address, chainID uint64) *Authorizer {
	return &Authorizer{
		authority: authority,
		engine:    engine,
		chainID:   new(big.Int).SetUint64(chainID),
	}
}

// BatchDigest computes the digest the backend authority signs:
// keccak256(abi(expirationDate, engineIdentity, chainID, hashes)).
func (a *Authorizer) BatchDigest(hashes []common.Hash, expirationDate int64) (common.Hash, error) {
	raw := make([][32]byte, len(hashes))
	for i, h := range hashes {
		raw[i] = h
	}

	packed, err := batchArgs.Pack(big.NewInt(expirationDate), a.engine, a.chainID, raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack batch digest: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

// Authorize validates the expiration window and the authority's
// signature over the batch. Expiration is checked first: an expired
// authorization is rejected regardless of signature validity.
func (a *Authorizer) Authorize(hashes []common.Hash, expirationDate int64, sig []byte, now time.Time) error {
	if now.UnixMilli() > expirationDate {
		return types.ErrAuthorizationExpired
	}

	digest, err := a.BatchDigest(hashes, expirationDate)
	if err != nil {
		return err
	}

	recovered, err := signer.RecoverAddress(digest, sig)
	if err != nil || recovered != a.authority {
		log.Debug().
			Str("recovered", recovered.Hex()).
			Str("authority", a.authority.Hex()).
			Int("batch_size", len(hashes)).
			Msg("batch signature rejected")
		return types.ErrBadBatchSignature
	}
	return nil
}
