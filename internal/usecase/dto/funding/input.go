package fundingdto

import "github.com/shopspring/decimal"

type AddFundsInput struct {
	MemberID           string
	Amount             decimal.Decimal
	IncludeCommissions bool
	ExternalTxRef      string
}
