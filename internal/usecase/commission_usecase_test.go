package usecase

import (
	"testing"

	"github.com/LavaJover/shvark-ledger-service/internal/config"
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRates() []config.CommissionRate {
	return []config.CommissionRate{
		{Level: 1, Rate: 0.10},
		{Level: 2, Rate: 0.05},
		{Level: 3, Rate: 0.02},
	}
}

// seedSponsorChain регистрирует участника recipient со спонсорской
// цепочкой sponsor1 <- sponsor2 <- sponsor3 (ближайший первым)
func seedSponsorChain(store *memory.Store) {
	store.AddMember(&domain.Member{ID: "sponsor3", Active: true})
	store.AddMember(&domain.Member{ID: "sponsor2", SponsorID: "sponsor3", Active: true})
	store.AddMember(&domain.Member{ID: "sponsor1", SponsorID: "sponsor2", Active: true})
	store.AddMember(&domain.Member{ID: "recipient", SponsorID: "sponsor1", Active: true})
}

func TestSponsorChainNearestFirst(t *testing.T) {
	store := memory.NewStore()
	seedSponsorChain(store)
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	chain, err := calc.SponsorChain("recipient")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, "sponsor1", chain[0].ID)
	assert.Equal(t, "sponsor2", chain[1].ID)
	assert.Equal(t, "sponsor3", chain[2].ID)
}

func TestSponsorChainShorterThanRules(t *testing.T) {
	store := memory.NewStore()
	store.AddMember(&domain.Member{ID: "top", Active: true})
	store.AddMember(&domain.Member{ID: "member", SponsorID: "top", Active: true})
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	chain, err := calc.SponsorChain("member")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, "top", chain[0].ID)
}

func TestSponsorChainBoundedByRules(t *testing.T) {
	store := memory.NewStore()
	store.AddMember(&domain.Member{ID: "l5", Active: true})
	store.AddMember(&domain.Member{ID: "l4", SponsorID: "l5", Active: true})
	store.AddMember(&domain.Member{ID: "l3", SponsorID: "l4", Active: true})
	store.AddMember(&domain.Member{ID: "l2", SponsorID: "l3", Active: true})
	store.AddMember(&domain.Member{ID: "l1", SponsorID: "l2", Active: true})
	store.AddMember(&domain.Member{ID: "member", SponsorID: "l1", Active: true})
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	chain, err := calc.SponsorChain("member")
	require.NoError(t, err)
	// Уровней в конфиге три - глубже не ходим
	require.Len(t, chain, 3)
	assert.Equal(t, "l3", chain[2].ID)
}

func TestSponsorChainCycle(t *testing.T) {
	store := memory.NewStore()
	store.AddMember(&domain.Member{ID: "a", SponsorID: "b", Active: true})
	store.AddMember(&domain.Member{ID: "b", SponsorID: "a", Active: true})
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	_, err := calc.SponsorChain("a")
	assert.ErrorIs(t, err, domain.ErrCyclicSponsorChain)
}

func TestCalculateShares(t *testing.T) {
	store := memory.NewStore()
	seedSponsorChain(store)
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	chain, err := calc.SponsorChain("recipient")
	require.NoError(t, err)

	shares, err := calc.Calculate(decimal.NewFromInt(100), chain, true)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.Equal(t, "sponsor1", shares[0].SponsorID)
	assert.True(t, shares[0].Amount.Equal(decimal.RequireFromString("10.00")), "got %s", shares[0].Amount)
	assert.Equal(t, "sponsor2", shares[1].SponsorID)
	assert.True(t, shares[1].Amount.Equal(decimal.RequireFromString("5.00")), "got %s", shares[1].Amount)
	assert.Equal(t, "sponsor3", shares[2].SponsorID)
	assert.True(t, shares[2].Amount.Equal(decimal.RequireFromString("2.00")), "got %s", shares[2].Amount)
}

func TestCalculateRoundsHalfEven(t *testing.T) {
	store := memory.NewStore()
	seedSponsorChain(store)
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	chain, err := calc.SponsorChain("recipient")
	require.NoError(t, err)

	// Середины тянутся к четному: 0.25*0.10 = 0.025 -> 0.02,
	// 0.25*0.02 = 0.005 -> 0.00. 0.0125 до середины не дотягивает -> 0.01
	shares, err := calc.Calculate(decimal.RequireFromString("0.25"), chain, true)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	assert.True(t, shares[0].Amount.Equal(decimal.RequireFromString("0.02")), "got %s", shares[0].Amount)
	assert.True(t, shares[1].Amount.Equal(decimal.RequireFromString("0.01")), "got %s", shares[1].Amount)
	assert.True(t, shares[2].Amount.IsZero(), "got %s", shares[2].Amount)

	// 0.35*0.10 = 0.035 -> к четному вверх, 0.04
	shares, err = calc.Calculate(decimal.RequireFromString("0.35"), chain, true)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	assert.True(t, shares[0].Amount.Equal(decimal.RequireFromString("0.04")), "got %s", shares[0].Amount)
}

func TestCalculateExcluded(t *testing.T) {
	store := memory.NewStore()
	seedSponsorChain(store)
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	chain, err := calc.SponsorChain("recipient")
	require.NoError(t, err)

	shares, err := calc.Calculate(decimal.NewFromInt(100), chain, false)
	require.NoError(t, err)
	assert.Empty(t, shares)
}

func TestCalculateShortChainSkipsDeepLevels(t *testing.T) {
	store := memory.NewStore()
	store.AddMember(&domain.Member{ID: "top", Active: true})
	store.AddMember(&domain.Member{ID: "member", SponsorID: "top", Active: true})
	calc := NewDefaultCommissionCalculator(store, defaultRates())

	chain, err := calc.SponsorChain("member")
	require.NoError(t, err)

	shares, err := calc.Calculate(decimal.NewFromInt(100), chain, true)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, 1, shares[0].Level)
	assert.Equal(t, "top", shares[0].SponsorID)
}
