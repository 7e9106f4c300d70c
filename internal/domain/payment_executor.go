package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentExecutor - внешний исполнитель платежей (подписанный перевод в сети).
// Реализация сама несет таймаут: зависший вызов считается проваленным
type PaymentExecutor interface {
	Pay(ctx context.Context, destinationAddress string, amount decimal.Decimal, gateway string) (externalTxRef string, err error)
}
