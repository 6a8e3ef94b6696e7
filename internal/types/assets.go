package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AssetKind selects the transfer calling convention for an asset. The
// numeric values are part of the canonical order encoding and must not
// be reordered.
type AssetKind uint8

const (
	Native AssetKind = iota
	FungibleToken
	NonFungibleToken
	SemiFungibleToken
)

func (k AssetKind) String() string {
	switch k {
	case Native:
		return "NATIVE"
	case FungibleToken:
		return "FUNGIBLE"
	case NonFungibleToken:
		return "NON_FUNGIBLE"
	case SemiFungibleToken:
		return "SEMI_FUNGIBLE"
	}
	return "UNKNOWN"
}

// Valid reports whether the kind is one of the four supported values.
func (k AssetKind) Valid() bool {
	return k <= SemiFungibleToken
}

// Asset is a single transferable unit. The tuple
// (kind, collection, id, amount) fully determines a transfer
// instruction.
//
// Collection is the asset contract address and must be the zero
// address for Native. ID identifies the unit for non-fungible and
// semi-fungible assets and is ignored for Native and FungibleToken.
type Asset struct {
	Kind       AssetKind      `json:"kind"`
	Collection common.Address `json:"collection"`
	ID         *big.Int       `json:"id"`
	Amount     *big.Int       `json:"amount"`
}

// Fungible reports whether the asset's quantity is divisible, i.e. it
// scales with an order's per-execution amount.
func (a Asset) Fungible() bool {
	return a.Kind != NonFungibleToken
}

// Currency reports whether the asset can act as the payment side of a
// sale or offer.
func (a Asset) Currency() bool {
	return a.Kind == Native || a.Kind == FungibleToken
}
