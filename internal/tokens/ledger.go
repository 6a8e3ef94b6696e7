// Package tokens implements ledger-backed asset contracts: native
// value, fungible tokens, non-fungible units and semi-fungible units.
// They stand in for the external token contracts the engine
// collaborates with, enforcing the same balance, ownership and
// approval rules a real contract would.
package tokens

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNotOwner              = errors.New("sender does not own the token")
	ErrNotApproved           = errors.New("operator is not approved")
	ErrUnknownToken          = errors.New("unknown token")
	ErrNegativeAmount        = errors.New("transfer amount must be non-negative")
)

// Transfer amounts come off the wire as big integers. A negative
// amount would run the adjusts in reverse, moving funds from the
// payee without any balance or approval check, so every transfer
// rejects it before touching state.
func checkTransferAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Ledger performs asset-contract operations on a database handle.
// Construct one per settlement transaction so every move joins the
// call's atomicity.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// --- native value ---

func (l *Ledger) NativeBalanceOf(account common.Address) (*big.Int, error) {
	var row NativeBalance
	err := l.db.Where("account = ?", account.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return parseAmount(row.Balance)
}

func (l *Ledger) NativeMint(account common.Address, amount *big.Int) error {
	return l.nativeAdjust(account, amount)
}

// NativeTransfer moves native value between accounts, failing when the
// sender's balance does not cover the amount.
func (l *Ledger) NativeTransfer(from, to common.Address, amount *big.Int) error {
	if err := checkTransferAmount(amount); err != nil {
		return err
	}
	if err := l.nativeAdjust(from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	return l.nativeAdjust(to, amount)
}

func (l *Ledger) nativeAdjust(account common.Address, delta *big.Int) error {
	var row NativeBalance
	err := l.db.Where("account = ?", account.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = NativeBalance{Account: account.Hex(), Balance: "0"}
	} else if err != nil {
		return err
	}

	balance, err := parseAmount(row.Balance)
	if err != nil {
		return err
	}
	balance.Add(balance, delta)
	if balance.Sign() < 0 {
		return ErrInsufficientBalance
	}

	row.Balance = balance.String()
	return l.db.Save(&row).Error
}

// --- fungible tokens ---

func (l *Ledger) FungibleBalanceOf(collection, account common.Address) (*big.Int, error) {
	var row TokenBalance
	err := l.db.Where("collection = ? AND account = ?", collection.Hex(), account.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return parseAmount(row.Balance)
}

func (l *Ledger) FungibleMint(collection, account common.Address, amount *big.Int) error {
	return l.fungibleAdjust(collection, account, amount)
}

func (l *Ledger) Approve(collection, owner, spender common.Address, amount *big.Int) error {
	var row TokenAllowance
	err := l.db.Where("collection = ? AND owner = ? AND spender = ?",
		collection.Hex(), owner.Hex(), spender.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = TokenAllowance{Collection: collection.Hex(), Owner: owner.Hex(), Spender: spender.Hex()}
	} else if err != nil {
		return err
	}
	row.Allowance = amount.String()
	return l.db.Save(&row).Error
}

func (l *Ledger) Allowance(collection, owner, spender common.Address) (*big.Int, error) {
	var row TokenAllowance
	err := l.db.Where("collection = ? AND owner = ? AND spender = ?",
		collection.Hex(), owner.Hex(), spender.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return parseAmount(row.Allowance)
}

// FungibleTransferFrom moves tokens on behalf of from, consuming the
// spender's allowance.
func (l *Ledger) FungibleTransferFrom(spender, collection, from, to common.Address, amount *big.Int) error {
	if err := checkTransferAmount(amount); err != nil {
		return err
	}
	allowance, err := l.Allowance(collection, from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}

	if err := l.fungibleAdjust(collection, from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	if err := l.fungibleAdjust(collection, to, amount); err != nil {
		return err
	}
	return l.Approve(collection, from, spender, allowance.Sub(allowance, amount))
}

func (l *Ledger) fungibleAdjust(collection, account common.Address, delta *big.Int) error {
	var row TokenBalance
	err := l.db.Where("collection = ? AND account = ?", collection.Hex(), account.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = TokenBalance{Collection: collection.Hex(), Account: account.Hex(), Balance: "0"}
	} else if err != nil {
		return err
	}

	balance, err := parseAmount(row.Balance)
	if err != nil {
		return err
	}
	balance.Add(balance, delta)
	if balance.Sign() < 0 {
		return ErrInsufficientBalance
	}

	row.Balance = balance.String()
	return l.db.Save(&row).Error
}

// --- non-fungible units ---

func (l *Ledger) NFTMint(collection common.Address, tokenID *big.Int, owner common.Address) error {
	return l.db.Create(&NFTUnit{
		Collection: collection.Hex(),
		TokenID:    tokenID.String(),
		Owner:      owner.Hex(),
	}).Error
}

func (l *Ledger) NFTOwnerOf(collection common.Address, tokenID *big.Int) (common.Address, error) {
	var row NFTUnit
	err := l.db.Where("collection = ? AND token_id = ?", collection.Hex(), tokenID.String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.Address{}, ErrUnknownToken
	}
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(row.Owner), nil
}

func (l *Ledger) SetOperatorApproval(collection, owner, operator common.Address, approved bool) error {
	var row OperatorApproval
	err := l.db.Where("collection = ? AND owner = ? AND operator = ?",
		collection.Hex(), owner.Hex(), operator.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = OperatorApproval{Collection: collection.Hex(), Owner: owner.Hex(), Operator: operator.Hex()}
	} else if err != nil {
		return err
	}
	row.Approved = approved
	return l.db.Save(&row).Error
}

func (l *Ledger) IsOperator(collection, owner, operator common.Address) (bool, error) {
	if owner == operator {
		return true, nil
	}
	var row OperatorApproval
	err := l.db.Where("collection = ? AND owner = ? AND operator = ?",
		collection.Hex(), owner.Hex(), operator.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return row.Approved, nil
}

// NFTTransferFrom moves a single unit on behalf of from, requiring
// ownership and operator approval.
func (l *Ledger) NFTTransferFrom(operator, collection common.Address, tokenID *big.Int, from, to common.Address) error {
	var row NFTUnit
	err := l.db.Where("collection = ? AND token_id = ?", collection.Hex(), tokenID.String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUnknownToken
	}
	if err != nil {
		return err
	}
	if row.Owner != from.Hex() {
		return ErrNotOwner
	}

	approved, err := l.IsOperator(collection, from, operator)
	if err != nil {
		return err
	}
	if !approved {
		return ErrNotApproved
	}

	row.Owner = to.Hex()
	return l.db.Save(&row).Error
}

// --- semi-fungible units ---

func (l *Ledger) SFTBalanceOf(collection common.Address, tokenID *big.Int, account common.Address) (*big.Int, error) {
	var row SFTBalance
	err := l.db.Where("collection = ? AND token_id = ? AND account = ?",
		collection.Hex(), tokenID.String(), account.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return parseAmount(row.Balance)
}

func (l *Ledger) SFTMint(collection common.Address, tokenID *big.Int, account common.Address, amount *big.Int) error {
	return l.sftAdjust(collection, tokenID, account, amount)
}

// SFTTransferFrom moves semi-fungible units on behalf of from,
// requiring operator approval.
func (l *Ledger) SFTTransferFrom(operator, collection common.Address, tokenID *big.Int, from, to common.Address, amount *big.Int) error {
	if err := checkTransferAmount(amount); err != nil {
		return err
	}
	approved, err := l.IsOperator(collection, from, operator)
	if err != nil {
		return err
	}
	if !approved {
		return ErrNotApproved
	}

	if err := l.sftAdjust(collection, tokenID, from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	return l.sftAdjust(collection, tokenID, to, amount)
}

func (l *Ledger) sftAdjust(collection common.Address, tokenID *big.Int, account common.Address, delta *big.Int) error {
	var row SFTBalance
	err := l.db.Where("collection = ? AND token_id = ? AND account = ?",
		collection.Hex(), tokenID.String(), account.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = SFTBalance{
			Collection: collection.Hex(),
			TokenID:    tokenID.String(),
			Account:    account.Hex(),
			Balance:    "0",
		}
	} else if err != nil {
		return err
	}

	balance, err := parseAmount(row.Balance)
	if err != nil {
		return err
	}
	balance.Add(balance, delta)
	if balance.Sign() < 0 {
		return ErrInsufficientBalance
	}

	row.Balance = balance.String()
	return l.db.Save(&row).Error
}
