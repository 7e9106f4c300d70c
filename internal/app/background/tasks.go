package background

import (
	"context"
	"log"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/bnb"
)

type BackgroundTasks struct{}

func NewBackgroundTasks() *BackgroundTasks {
	return &BackgroundTasks{}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startCryptoRatesUpdate(ctx)
}

func (bt *BackgroundTasks) startCryptoRatesUpdate(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bnbRate, err := bnb.GetBnbUsdtRate()
			if err != nil {
				log.Printf("BNB/USDT rates update failed: %v", err)
				continue
			}
			log.Printf("BNB/USDT rates updated: bnb/usdt=%s", bnbRate.StringFixed(2))
		}
	}
}
