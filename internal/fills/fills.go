// Package fills tracks the cumulative executed amount per order hash.
//
// The counter is the only per-order state the engine persists: orders
// are reconstructed from caller input on every call and cannot be
// trusted as the source of truth. Rows are created implicitly at zero,
// only ever incremented, and never deleted, so a fully filled order
// stays rejected forever.
package fills

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"

	"github.com/nmxlabs/marketplace-api/internal/types"
)

// Fill is the persisted cumulative fill counter, keyed by order hash.
type Fill struct {
	gorm.Model `json:"-"`
	OrderHash  string `gorm:"uniqueIndex" json:"order_hash"`
	Filled     uint64 `json:"filled"`
}

// Ledger reads and advances fill counters on a database handle. Pass
// the settlement call's transaction so the check-then-update is atomic
// with the rest of the order's effects.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Reserve advances the order's counter by amount, failing with
// Overfill when the result would exceed totalAmount. Overfill is a
// rejection, never a clamp.
func (l *Ledger) Reserve(orderHash common.Hash, amount, totalAmount uint64) error {
	var fill Fill
	err := l.db.Where("order_hash = ?", orderHash.Hex()).First(&fill).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fill = Fill{OrderHash: orderHash.Hex()}
	case err != nil:
		return err
	}

	// Overflow-safe form of fill.Filled+amount > totalAmount.
	if amount > totalAmount || fill.Filled > totalAmount-amount {
		return types.ErrOverfill
	}

	fill.Filled += amount
	return l.db.Save(&fill).Error
}

// Filled returns the cumulative executed amount for an order hash,
// zero when the order has never settled.
func (l *Ledger) Filled(orderHash common.Hash) (uint64, error) {
	var fill Fill
	err := l.db.Where("order_hash = ?", orderHash.Hex()).First(&fill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return fill.Filled, nil
}
