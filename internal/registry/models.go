package registry

import "gorm.io/gorm"

// Basis points denominator shared by fees and royalties.
const BpsDenominator = 10000

// FeeConfig is the per-collection marketplace fee pair. Both
// components are paid to the fees beneficiary; they are configured
// separately so the buyer- and seller-side cut can differ. The row
// keyed by the zero address is the default applied to payment assets
// with no collection-specific row.
type FeeConfig struct {
	gorm.Model   `json:"-"`
	Collection   string `gorm:"uniqueIndex" json:"collection"`
	BuyerFeeBps  uint64 `json:"buyer_fee_bps"`
	SellerFeeBps uint64 `json:"seller_fee_bps"`
}

// Royalty is one registered royalty recipient for a collection. A
// collection may carry several recipients, each with its own rate.
type Royalty struct {
	gorm.Model `json:"-"`
	Collection string `gorm:"index" json:"collection"`
	Recipient  string `json:"recipient"`
	Bps        uint64 `json:"bps"`
}

// Setting is a single persisted configuration value. Currently only
// the fees beneficiary lives here.
type Setting struct {
	gorm.Model `json:"-"`
	Key        string `gorm:"uniqueIndex" json:"key"`
	Value      string `json:"value"`
}

const settingBeneficiary = "fees_beneficiary"
