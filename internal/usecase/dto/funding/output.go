package fundingdto

import (
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/shopspring/decimal"
)

type AddFundsOutput struct {
	CreditedEntry        *domain.LedgerEntry
	CommissionEntries    []*domain.LedgerEntry
	Commissions          []domain.CommissionShare
	TotalCommissionsPaid decimal.Decimal
}
