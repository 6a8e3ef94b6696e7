package tokens

import (
	"fmt"
	"math/big"

	"gorm.io/gorm"
)

// Balances and allowances are stored as decimal strings because the
// quantities are uint256-scale and must survive round-trips without
// loss.

type NativeBalance struct {
	gorm.Model `json:"-"`
	Account    string `gorm:"uniqueIndex" json:"account"`
	Balance    string `json:"balance"`
}

type TokenBalance struct {
	gorm.Model `json:"-"`
	Collection string `gorm:"uniqueIndex:idx_token_balance" json:"collection"`
	Account    string `gorm:"uniqueIndex:idx_token_balance" json:"account"`
	Balance    string `json:"balance"`
}

type TokenAllowance struct {
	gorm.Model `json:"-"`
	Collection string `gorm:"uniqueIndex:idx_token_allowance" json:"collection"`
	Owner      string `gorm:"uniqueIndex:idx_token_allowance" json:"owner"`
	Spender    string `gorm:"uniqueIndex:idx_token_allowance" json:"spender"`
	Allowance  string `json:"allowance"`
}

// NFTUnit is one non-fungible token and its current owner.
type NFTUnit struct {
	gorm.Model `json:"-"`
	Collection string `gorm:"uniqueIndex:idx_nft_unit" json:"collection"`
	TokenID    string `gorm:"uniqueIndex:idx_nft_unit" json:"token_id"`
	Owner      string `gorm:"index" json:"owner"`
}

// OperatorApproval covers both non-fungible and semi-fungible
// collections: an approved operator may move any of the owner's units
// in the collection.
type OperatorApproval struct {
	gorm.Model `json:"-"`
	Collection string `gorm:"uniqueIndex:idx_operator_approval" json:"collection"`
	Owner      string `gorm:"uniqueIndex:idx_operator_approval" json:"owner"`
	Operator   string `gorm:"uniqueIndex:idx_operator_approval" json:"operator"`
	Approved   bool   `json:"approved"`
}

type SFTBalance struct {
	gorm.Model `json:"-"`
	Collection string `gorm:"uniqueIndex:idx_sft_balance" json:"collection"`
	TokenID    string `gorm:"uniqueIndex:idx_sft_balance" json:"token_id"`
	Account    string `gorm:"uniqueIndex:idx_sft_balance" json:"account"`
	Balance    string `json:"balance"`
}

// Models lists every table this package persists, for migration.
func Models() []any {
	return []any{
		&NativeBalance{}, &TokenBalance{}, &TokenAllowance{},
		&NFTUnit{}, &OperatorApproval{}, &SFTBalance{},
	}
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
