package registry

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetFeeConfig(collection string) (*FeeConfig, error) {
	var config FeeConfig
	if err := d.db.Where("collection = ?", collection).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

func (d *Database) UpsertFeeConfig(config *FeeConfig) error {
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}},
		DoUpdates: clause.AssignmentColumns([]string{"buyer_fee_bps", "seller_fee_bps", "updated_at"}),
	}).Create(config).Error
}

func (d *Database) GetRoyalties(collection string) ([]Royalty, error) {
	var royalties []Royalty
	if err := d.db.Where("collection = ?", collection).Find(&royalties).Error; err != nil {
		return nil, err
	}
	return royalties, nil
}

// ReplaceRoyalties swaps the collection's registered recipients for
// the given set in one transaction.
func (d *Database) ReplaceRoyalties(collection string, royalties []Royalty) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&Royalty{}).Error; err != nil {
			return err
		}
		if len(royalties) == 0 {
			return nil
		}
		return tx.Create(&royalties).Error
	})
}

func (d *Database) GetSetting(key string) (string, error) {
	var setting Setting
	if err := d.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (d *Database) PutSetting(key, value string) error {
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Setting{Key: key, Value: value}).Error
}
