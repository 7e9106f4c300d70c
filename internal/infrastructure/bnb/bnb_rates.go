package bnb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	tickerURL      = "https://api.binance.com/api/v3/ticker/price?symbol=BNBUSDT"
	requestTimeout = 5 * time.Second
)

// FallbackBnbUsdtRate используется, когда Binance недоступен
var FallbackBnbUsdtRate = decimal.NewFromInt(300)

var BnbUsdtRate = FallbackBnbUsdtRate

type BinanceTickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetBnbUsdtRate запрашивает текущий курс BNB/USDT у Binance.
// При любой ошибке возвращается последний известный курс и ошибка
func GetBnbUsdtRate() (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, tickerURL, nil)
	if err != nil {
		return BnbUsdtRate, err
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return BnbUsdtRate, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return BnbUsdtRate, err
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var tickerResponse BinanceTickerResponse
		if err := json.Unmarshal(responseBodyBytes, &tickerResponse); err != nil {
			return BnbUsdtRate, err
		}
		price, err := decimal.NewFromString(tickerResponse.Price)
		if err != nil || !price.IsPositive() {
			return BnbUsdtRate, status.Error(codes.Internal, "binance returned invalid BNBUSDT price")
		}
		BnbUsdtRate = price
		return price, nil
	}

	return BnbUsdtRate, status.Error(codes.Internal, "failed to fetch BNBUSDT price from Binance")
}
