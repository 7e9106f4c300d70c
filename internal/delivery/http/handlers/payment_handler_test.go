package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", body["destination_address"])
		assert.Equal(t, "50.00", body["amount"])
		assert.Equal(t, "bep20", body["gateway"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tx_ref":"tx-42","status":"sent"}`))
	}))
	defer server.Close()

	handler, err := NewHTTPPaymentHandler(server.URL, time.Second)
	require.NoError(t, err)

	txRef, err := handler.Pay(context.Background(), "0x52908400098527886E0F7030069857D2E4169EE7", decimal.NewFromInt(50), "bep20")
	require.NoError(t, err)
	assert.Equal(t, "tx-42", txRef)
}

func TestPayRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"destination blacklisted"}`))
	}))
	defer server.Close()

	handler, err := NewHTTPPaymentHandler(server.URL, time.Second)
	require.NoError(t, err)

	_, err = handler.Pay(context.Background(), "0x52908400098527886E0F7030069857D2E4169EE7", decimal.NewFromInt(50), "bep20")
	assert.ErrorIs(t, err, domain.ErrPaymentRejected)
	assert.Contains(t, err.Error(), "destination blacklisted")
}

func TestPayEmptyTxRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"sent"}`))
	}))
	defer server.Close()

	handler, err := NewHTTPPaymentHandler(server.URL, time.Second)
	require.NoError(t, err)

	_, err = handler.Pay(context.Background(), "0x52908400098527886E0F7030069857D2E4169EE7", decimal.NewFromInt(50), "bep20")
	assert.ErrorIs(t, err, domain.ErrPaymentRejected)
}

func TestPayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	handler, err := NewHTTPPaymentHandler(server.URL, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = handler.Pay(context.Background(), "0x52908400098527886E0F7030069857D2E4169EE7", decimal.NewFromInt(50), "bep20")
	assert.ErrorIs(t, err, domain.ErrPaymentTimeout)
}
