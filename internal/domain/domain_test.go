package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAllowedTransitions(t *testing.T) {
	allowed := [][2]WithdrawalStatus{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusCompleted},
	}
	for _, pair := range allowed {
		assert.True(t, AllowedTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]WithdrawalStatus{
		{StatusPending, StatusCompleted},
		{StatusProcessing, StatusRejected},
		{StatusProcessing, StatusCancelled},
		{StatusCompleted, StatusPending},
		{StatusRejected, StatusProcessing},
		{StatusCancelled, StatusPending},
	}
	for _, pair := range denied {
		assert.False(t, AllowedTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestValidWalletAddress(t *testing.T) {
	assert.True(t, ValidWalletAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.True(t, ValidWalletAddress("0x0000000000000000000000000000000000000000"))

	assert.False(t, ValidWalletAddress(""))
	assert.False(t, ValidWalletAddress("52908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, ValidWalletAddress("0x5290"))
	assert.False(t, ValidWalletAddress("0xZZ908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, ValidWalletAddress("0x52908400098527886E0F7030069857D2E4169EE7a"))
}

func TestRoundMoneyHalfEven(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.00",
		"1.015":  "1.02",
		"1.025":  "1.02",
		"2.675":  "2.68",
		"-1.005": "-1.00",
		"10":     "10.00",
	}
	for in, want := range cases {
		got := RoundMoney(decimal.RequireFromString(in))
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s -> %s, want %s", in, got, want)
	}
}
