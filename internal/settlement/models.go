package settlement

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gorm.io/gorm"

	"github.com/nmxlabs/marketplace-api/internal/types"
)

// SettlementRecord is the persisted observable result of one settled
// order. Monetary totals are decimal strings in the payment asset's
// base units.
type SettlementRecord struct {
	gorm.Model   `json:"-"`
	RecordID     string    `gorm:"uniqueIndex" json:"record_id"`
	OrderHash    string    `gorm:"index" json:"order_hash"`
	Owner        string    `gorm:"index" json:"owner"`
	Counterparty string    `gorm:"index" json:"counterparty"`
	OrderType    string    `json:"order_type"`
	Amount       uint64    `json:"amount"`
	GrossValue   string    `json:"gross_value"`
	FeeValue     string    `json:"fee_value"`
	RoyaltyValue string    `json:"royalty_value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SettleRequest is one settlement call: parallel orders/hashes arrays,
// the backend authorization, and the caller's native spending ceiling.
type SettleRequest struct {
	Caller          string        `json:"caller" binding:"required"`
	Orders          []types.Order `json:"orders" binding:"required"`
	Hashes          []common.Hash `json:"hashes" binding:"required"`
	BatchExpiration int64         `json:"batch_expiration"`
	BatchSignature  hexutil.Bytes `json:"batch_signature" binding:"required"`
	AttachedValue   *big.Int      `json:"attached_value"`
}

// OrderOutcome reports the result for one order of the batch.
type OrderOutcome struct {
	OrderHash string `json:"order_hash"`
	Settled   bool   `json:"settled"`
	RecordID  string `json:"record_id,omitempty"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SettleResponse summarizes a settlement call. Outcomes correspond
// index-wise to the submitted orders.
type SettleResponse struct {
	BatchSize   int            `json:"batch_size"`
	Settled     int            `json:"settled"`
	Rejected    int            `json:"rejected"`
	NativeSpent string         `json:"native_spent"`
	Outcomes    []OrderOutcome `json:"outcomes"`
}
