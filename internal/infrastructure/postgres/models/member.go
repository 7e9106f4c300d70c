package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberModel - модель участника в БД
type MemberModel struct {
	ID            string          `gorm:"primaryKey;type:uuid"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	SponsorID     string          `gorm:"type:uuid;index"`
	WalletAddress string
	Active        bool      `gorm:"default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (MemberModel) TableName() string {
	return "member_models"
}
