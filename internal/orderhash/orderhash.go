// Package orderhash computes the canonical digest of a matched order.
//
// The digest is keccak256 over a standard ABI encoding of the order's
// economic fields. Root, root signature and proof are populated after
// hashing and never contribute to the digest. Wildcard orders hash only
// the kind, collection and amount of the wildcard side, omitting its
// identifier, so any identifier supplied at execution time is still
// covered by the owner's signature.
package orderhash

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/nmxlabs/marketplace-api/internal/types"
)

// assetTuple mirrors the ABI tuple
// (uint256 assetType, address collection, int256 id, uint256 amount).
type assetTuple struct {
	AssetType  *big.Int
	Collection common.Address
	Id         *big.Int
	Amount     *big.Int
}

var (
	uint256Ty = mustType("uint256", nil)
	addressTy = mustType("address", nil)
	assetsTy  = mustType("tuple[]", []abi.ArgumentMarshaling{
		{Name: "assetType", Type: "uint256"},
		{Name: "collection", Type: "address"},
		{Name: "id", Type: "int256"},
		{Name: "amount", Type: "uint256"},
	})

	// bidAny: (kind, collection, amount, ask[], totalAmount, creationDate, expirationDate)
	bidAnyArgs = abi.Arguments{
		{Type: uint256Ty}, {Type: addressTy}, {Type: uint256Ty},
		{Type: assetsTy}, {Type: uint256Ty}, {Type: uint256Ty}, {Type: uint256Ty},
	}
	// askAny: (bid[], kind, collection, amount, totalAmount, creationDate, expirationDate)
	askAnyArgs = abi.Arguments{
		{Type: assetsTy}, {Type: uint256Ty}, {Type: addressTy}, {Type: uint256Ty},
		{Type: uint256Ty}, {Type: uint256Ty}, {Type: uint256Ty},
	}
	// exact: (bid[], ask[], totalAmount, creationDate, expirationDate)
	exactArgs = abi.Arguments{
		{Type: assetsTy}, {Type: assetsTy}, {Type: uint256Ty}, {Type: uint256Ty}, {Type: uint256Ty},
	}
)

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	ty, err := abi.NewType(t, "", components)
	if err != nil {
		panic(fmt.Sprintf("orderhash: bad abi type %s: %v", t, err))
	}
	return ty
}

// Hash returns the canonical digest of the order. The same branch
// selection is used at signing and verification time: wildcard
// encodings apply only when the wildcard flag is set and the
// corresponding side holds exactly one asset.
func Hash(o *types.Order) (common.Hash, error) {
	total := new(big.Int).SetUint64(o.TotalAmount)
	created := big.NewInt(o.CreationDate)
	expires := big.NewInt(o.ExpirationDate)

	var (
		packed []byte
		err    error
	)
	switch {
	case o.WildcardBid():
		packed, err = bidAnyArgs.Pack(
			kindOf(o.Bid[0]), o.Bid[0].Collection, amountOf(o.Bid[0]),
			tuples(o.Ask), total, created, expires,
		)
	case o.WildcardAsk():
		packed, err = askAnyArgs.Pack(
			tuples(o.Bid),
			kindOf(o.Ask[0]), o.Ask[0].Collection, amountOf(o.Ask[0]),
			total, created, expires,
		)
	default:
		packed, err = exactArgs.Pack(tuples(o.Bid), tuples(o.Ask), total, created, expires)
	}
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack order: %w", err)
	}

	return crypto.Keccak256Hash(packed), nil
}

func tuples(assets []types.Asset) []assetTuple {
	out := make([]assetTuple, len(assets))
	for i, a := range assets {
		out[i] = assetTuple{
			AssetType:  big.NewInt(int64(a.Kind)),
			Collection: a.Collection,
			Id:         orZero(a.ID),
			Amount:     orZero(a.Amount),
		}
	}
	return out
}

func kindOf(a types.Asset) *big.Int {
	return big.NewInt(int64(a.Kind))
}

func amountOf(a types.Asset) *big.Int {
	return orZero(a.Amount)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
