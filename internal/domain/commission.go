package domain

import "github.com/shopspring/decimal"

// CommissionRule - ставка комиссии для уровня спонсорской цепочки.
// Уровень 1 - ближайший спонсор
type CommissionRule struct {
	Level int
	Rate  decimal.Decimal
}

// CommissionShare - рассчитанная комиссия конкретному спонсору
type CommissionShare struct {
	Level     int
	SponsorID string
	Rate      decimal.Decimal
	Amount    decimal.Decimal
}
