package postgres

import (
	"log"

	"github.com/LavaJover/shvark-ledger-service/internal/config"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.LedgerConfig) *gorm.DB {
	dsn := cfg.LedgerDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.MemberModel{}, &models.LedgerEntryModel{}, &models.WithdrawalRequestModel{})

	return db
}
