package models

import (
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalRequestModel - модель заявки на вывод в БД
type WithdrawalRequestModel struct {
	ID            string                  `gorm:"primaryKey"`
	MemberID      string                  `gorm:"type:uuid;not null;index:idx_withdrawal_member"`
	Gross         decimal.Decimal         `gorm:"type:numeric(20,2);not null"`
	Charges       decimal.Decimal         `gorm:"type:numeric(20,2);not null"`
	Net           decimal.Decimal         `gorm:"type:numeric(20,2);not null"`
	WalletAddress string                  `gorm:"not null"`
	Status        domain.WithdrawalStatus `gorm:"not null;index:idx_withdrawal_status"`
	Gateway       string
	ExternalTxRef string
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_withdrawal_created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (WithdrawalRequestModel) TableName() string {
	return "withdrawal_request_models"
}
