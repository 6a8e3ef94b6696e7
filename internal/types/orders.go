package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// OrderType selects the settlement semantics applied to a matched
// order.
type OrderType uint8

const (
	// Swap exchanges the bid assets for the ask assets directly, with
	// no fee or royalty levied.
	Swap OrderType = iota
	// BundleOrSingleToCurrencyOrNative sells the bid side (one unit or
	// a bundle of units) for the ask side (currency or native value)
	// supplied by the executing counterparty.
	BundleOrSingleToCurrencyOrNative
	// OfferToCurrencyOrMultiCurrency is the reverse sale: the order
	// owner pays the bid side (one or more currencies) for the single
	// unit on the ask side delivered by the executing counterparty.
	OfferToCurrencyOrMultiCurrency
)

func (t OrderType) String() string {
	switch t {
	case Swap:
		return "SWAP"
	case BundleOrSingleToCurrencyOrNative:
		return "BUNDLE_OR_SINGLE_TO_CURRENCY"
	case OfferToCurrencyOrMultiCurrency:
		return "OFFER_TO_CURRENCY"
	}
	return "UNKNOWN"
}

// Order is the unit a counterparty signs off-chain. Root,
// RootSignature and Proof are populated after the order is hashed into
// a batch and never participate in the order digest.
//
// When BidAny is set and Bid holds exactly one element, that asset's
// ID is a wildcard: the digest omits it and the counterparty supplies
// the concrete identifier at execution time. AskAny is the symmetric
// rule for the ask side.
type Order struct {
	Bid            []Asset        `json:"bid"`
	Ask            []Asset        `json:"ask"`
	TotalAmount    uint64         `json:"total_amount"`
	Amount         uint64         `json:"amount"`
	Owner          common.Address `json:"owner"`
	CreationDate   int64          `json:"creation_date"`
	ExpirationDate int64          `json:"expiration_date"`
	AskAny         bool           `json:"ask_any"`
	BidAny         bool           `json:"bid_any"`
	OrderType      OrderType      `json:"order_type"`
	Root           common.Hash    `json:"root"`
	RootSignature  hexutil.Bytes  `json:"root_signature"`
	Proof          []common.Hash  `json:"proof"`
}

// Expired reports whether the order's own expiration has passed.
// Order dates are unix milliseconds, matching the client convention.
func (o *Order) Expired(now time.Time) bool {
	return now.UnixMilli() > o.ExpirationDate
}

// WildcardBid reports whether the single bid asset's ID is resolved at
// execution time.
func (o *Order) WildcardBid() bool {
	return o.BidAny && len(o.Bid) == 1
}

// WildcardAsk reports whether the single ask asset's ID is resolved at
// execution time.
func (o *Order) WildcardAsk() bool {
	return o.AskAny && len(o.Ask) == 1
}
