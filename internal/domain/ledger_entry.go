package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	KindCredit            EntryKind = "CREDIT"
	KindCommission        EntryKind = "COMMISSION"
	KindWithdrawalHold    EntryKind = "WITHDRAWAL_HOLD"
	KindWithdrawalRelease EntryKind = "WITHDRAWAL_RELEASE"
	KindWithdrawalPayout  EntryKind = "WITHDRAWAL_PAYOUT"
)

// MoneyScale - количество знаков после запятой для всех сумм леджера
const MoneyScale = 2

type LedgerEntry struct {
	ID               string
	MemberID         string
	Amount           decimal.Decimal
	Kind             EntryKind
	RelatedRequestID string
	ExternalTxRef    string
	CreatedAt        time.Time
}

// LedgerOp - одиночная проводка: положительная сумма для кредита,
// отрицательная для дебета
type LedgerOp struct {
	MemberID         string
	Amount           decimal.Decimal
	Kind             EntryKind
	RelatedRequestID string
	ExternalTxRef    string
}

/// FundingPlan - атомарный план пополнения: кредит получателю плюс
// комиссии спонсорам, применяется целиком или никак
type FundingPlan struct {
	Recipient   LedgerOp
	Commissions []LedgerOp
}

// RoundMoney приводит сумму к денежной точности банковским округлением
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(MoneyScale)
}
