package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nmxlabs/marketplace-api/internal/fills"
	"github.com/nmxlabs/marketplace-api/internal/registry"
	"github.com/nmxlabs/marketplace-api/internal/settlement"
	"github.com/nmxlabs/marketplace-api/internal/tokens"
)

// NewDatabase opens the sqlite database at the given DSN and migrates
// every persisted model. Tests pass an in-memory DSN such as
// "file:enginetest?mode=memory&cache=shared".
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	models := []any{
		&fills.Fill{},
		&registry.FeeConfig{},
		&registry.Royalty{},
		&registry.Setting{},
		&settlement.SettlementRecord{},
	}
	models = append(models, tokens.Models()...)

	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}

	return db, nil
}
