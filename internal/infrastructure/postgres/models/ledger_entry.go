package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryModel - проводка леджера. Знак Amount определяет направление,
// ExternalTxRef уникален среди непустых значений для идемпотентности
type LedgerEntryModel struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	MemberID         string          `gorm:"type:uuid;not null;index:idx_entry_member"`
	Amount           decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Kind             string          `gorm:"not null;index"`
	RelatedRequestID string          `gorm:"index"`
	ExternalTxRef    *string         `gorm:"uniqueIndex:idx_entry_tx_ref"`
	CreatedAt        time.Time       `gorm:"autoCreateTime;index:idx_entry_created_at"`
}

func (LedgerEntryModel) TableName() string {
	return "ledger_entry_models"
}
