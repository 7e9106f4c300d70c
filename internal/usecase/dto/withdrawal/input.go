package withdrawaldto

import "github.com/shopspring/decimal"

type CreateRequestInput struct {
	MemberID      string
	Gross         decimal.Decimal
	Charges       decimal.Decimal
	WalletAddress string
	Gateway       string
}

type GetRequestsInput struct {
	Page     int64
	Limit    int64
	Statuses []string
	Search   string
	MemberID string
}
