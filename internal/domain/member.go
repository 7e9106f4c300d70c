package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var walletAddressRegexp = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

type Member struct {
	ID            string
	Balance       decimal.Decimal
	SponsorID     string
	WalletAddress string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ValidWalletAddress(address string) bool {
	return walletAddressRegexp.MatchString(address)
}
