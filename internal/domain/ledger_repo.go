package domain

import "github.com/shopspring/decimal"

type LedgerRepository interface {
	// CreateMember регистрирует участника; повтор ID отклоняется
	CreateMember(member *Member) error
	GetMemberByID(memberID string) (*Member, error)
	GetBalance(memberID string) (decimal.Decimal, error)
	// Credit/Debit атомарно вставляют проводку и обновляют кэш баланса
	Credit(op LedgerOp) (*LedgerEntry, error)
	Debit(op LedgerOp) (*LedgerEntry, error)
	// PostFunding применяет план пополнения целиком в одной транзакции
	PostFunding(plan *FundingPlan) ([]*LedgerEntry, error)
	FindEntryByExternalTxRef(txRef string) (*LedgerEntry, error)
	GetEntriesByMemberID(memberID string, page, limit int64) ([]*LedgerEntry, int64, error)
}
