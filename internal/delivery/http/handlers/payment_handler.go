package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	paymentRequest "github.com/LavaJover/shvark-ledger-service/internal/delivery/http/dto/payment/request"
	paymentResponse "github.com/LavaJover/shvark-ledger-service/internal/delivery/http/dto/payment/response"
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/shopspring/decimal"
)

// HTTPPaymentHandler шлет платежи во внешний платежный шлюз
type HTTPPaymentHandler struct {
	Address string
	Client  *http.Client
}

func NewHTTPPaymentHandler(address string, timeout time.Duration) (*HTTPPaymentHandler, error) {
	return &HTTPPaymentHandler{
		Address: address,
		Client:  &http.Client{Timeout: timeout},
	}, nil
}

func (h *HTTPPaymentHandler) Pay(ctx context.Context, destinationAddress string, amount decimal.Decimal, gateway string) (string, error) {
	requestBodyBytes, err := json.Marshal(paymentRequest.PayRequest{
		DestinationAddress: destinationAddress,
		Amount:             amount.StringFixed(domain.MoneyScale),
		Gateway:            gateway,
	})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/payments", h.Address), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := h.Client.Do(request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrPaymentTimeout, err)
		}
		return "", err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var payResponse paymentResponse.PayResponse
		if err := json.Unmarshal(responseBodyBytes, &payResponse); err != nil {
			return "", err
		}
		if payResponse.TxRef == "" {
			return "", fmt.Errorf("%w: gateway returned empty tx_ref", domain.ErrPaymentRejected)
		}
		return payResponse.TxRef, nil
	}

	var errorResponse paymentResponse.ErrorResponse
	if err := json.Unmarshal(responseBodyBytes, &errorResponse); err != nil {
		return "", fmt.Errorf("%w: status %d", domain.ErrPaymentRejected, response.StatusCode)
	}
	return "", fmt.Errorf("%w: %s", domain.ErrPaymentRejected, errorResponse.Error)
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
