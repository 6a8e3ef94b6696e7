package settlement

import (
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateRecord(tx *gorm.DB, record *SettlementRecord) error {
	return tx.Create(record).Error
}

func (d *Database) GetRecord(recordID string) (*SettlementRecord, error) {
	var record SettlementRecord
	if err := d.db.Where("record_id = ?", recordID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (d *Database) GetRecordsByOrderHash(orderHash string) ([]SettlementRecord, error) {
	var records []SettlementRecord
	if err := d.db.Where("order_hash = ?", orderHash).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListRecords returns records filtered by owner and/or counterparty,
// newest first. Empty filters match everything.
func (d *Database) ListRecords(owner, counterparty string, limit int) ([]SettlementRecord, error) {
	query := d.db.Model(&SettlementRecord{})
	if owner != "" {
		query = query.Where("owner = ?", owner)
	}
	if counterparty != "" {
		query = query.Where("counterparty = ?", counterparty)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var records []SettlementRecord
	if err := query.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
