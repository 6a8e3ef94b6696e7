// Package transfer moves a single asset unit of any supported kind
// between two parties. The four kinds have different calling
// conventions on the underlying ledgers; this package hides them
// behind one capability, dispatched on the asset's kind tag.
package transfer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nmxlabs/marketplace-api/internal/tokens"
	"github.com/nmxlabs/marketplace-api/internal/types"
)

// Movement is one computed asset flow of a settlement.
type Movement struct {
	Asset types.Asset
	From  common.Address
	To    common.Address
}

// Helper executes movements as the engine identity. Token moves on
// behalf of From require that identity to hold a prior allowance or
// operator approval; ownership and balance checks stay with the
// ledger.
type Helper struct {
	operator common.Address
}

func NewHelper(operator common.Address) *Helper {
	return &Helper{operator: operator}
}

// Execute performs one movement on the given ledger. Refusals
// (insufficient balance, missing approval, unknown token) surface as
// the stable transfer-failure rejection.
func (h *Helper) Execute(ledger *tokens.Ledger, m Movement) error {
	amount := m.Asset.Amount
	if amount == nil {
		amount = new(big.Int)
	}

	var err error
	switch m.Asset.Kind {
	case types.Native:
		err = ledger.NativeTransfer(m.From, m.To, amount)
	case types.FungibleToken:
		err = ledger.FungibleTransferFrom(h.operator, m.Asset.Collection, m.From, m.To, amount)
	case types.NonFungibleToken:
		err = ledger.NFTTransferFrom(h.operator, m.Asset.Collection, m.Asset.ID, m.From, m.To)
	case types.SemiFungibleToken:
		err = ledger.SFTTransferFrom(h.operator, m.Asset.Collection, m.Asset.ID, m.From, m.To, amount)
	default:
		err = tokens.ErrUnknownToken
	}

	if err != nil {
		return types.TransferFailed(err)
	}
	return nil
}
