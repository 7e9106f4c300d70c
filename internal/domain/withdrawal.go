package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	StatusPending    WithdrawalStatus = "PENDING"
	StatusProcessing WithdrawalStatus = "PROCESSING"
	StatusCompleted  WithdrawalStatus = "COMPLETED"
	StatusRejected   WithdrawalStatus = "REJECTED"
	StatusCancelled  WithdrawalStatus = "CANCELLED"
)

type WithdrawalRequest struct {
	ID            string
	MemberID      string
	Gross         decimal.Decimal
	Charges       decimal.Decimal
	Net           decimal.Decimal
	WalletAddress string
	Status        WithdrawalStatus
	Gateway       string
	ExternalTxRef string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Terminal - из терминального статуса переходов нет
func (s WithdrawalStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// AllowedTransition - единственные разрешенные переходы статусов заявки
func AllowedTransition(from, to WithdrawalStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusRejected || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted
	}
	return false
}

type WithdrawalFilters struct {
	Statuses []string
	Search   string
	MemberID string
}
