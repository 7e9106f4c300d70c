package usecase

import (
	"errors"
	"testing"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/memory"
	fundingdto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/funding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFundingFixture(t *testing.T) (*memory.Store, *DefaultFundingUsecase) {
	t.Helper()
	store := memory.NewStore()
	seedSponsorChain(store)
	calc := NewDefaultCommissionCalculator(store, defaultRates())
	uc := NewDefaultFundingUsecase(store, calc, nil, nil, 10000)
	return store, uc
}

func mustBalance(t *testing.T, store *memory.Store, memberID string) decimal.Decimal {
	t.Helper()
	balance, err := store.GetBalance(memberID)
	require.NoError(t, err)
	return balance
}

func TestAddFundsWithCommissions(t *testing.T) {
	store, uc := newFundingFixture(t)

	output, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID:           "recipient",
		Amount:             decimal.NewFromInt(100),
		IncludeCommissions: true,
		ExternalTxRef:      "tx-100",
	})
	require.NoError(t, err)

	assert.True(t, output.CreditedEntry.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.KindCredit, output.CreditedEntry.Kind)
	assert.Equal(t, "tx-100", output.CreditedEntry.ExternalTxRef)
	require.Len(t, output.CommissionEntries, 3)
	assert.True(t, output.TotalCommissionsPaid.Equal(decimal.NewFromInt(17)), "got %s", output.TotalCommissionsPaid)

	assert.True(t, mustBalance(t, store, "recipient").Equal(decimal.NewFromInt(100)))
	assert.True(t, mustBalance(t, store, "sponsor1").Equal(decimal.NewFromInt(10)))
	assert.True(t, mustBalance(t, store, "sponsor2").Equal(decimal.NewFromInt(5)))
	assert.True(t, mustBalance(t, store, "sponsor3").Equal(decimal.NewFromInt(2)))
}

func TestAddFundsWithoutCommissions(t *testing.T) {
	store, uc := newFundingFixture(t)

	output, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID: "recipient",
		Amount:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.Empty(t, output.CommissionEntries)
	assert.True(t, output.TotalCommissionsPaid.IsZero())
	assert.True(t, mustBalance(t, store, "sponsor1").IsZero())
}

func TestAddFundsDuplicateExternalRef(t *testing.T) {
	store, uc := newFundingFixture(t)

	_, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID:      "recipient",
		Amount:        decimal.NewFromInt(50),
		ExternalTxRef: "tx-dup",
	})
	require.NoError(t, err)

	_, err = uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID:      "recipient",
		Amount:        decimal.NewFromInt(50),
		ExternalTxRef: "tx-dup",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateTransaction)

	// Повтор не зачислился
	assert.True(t, mustBalance(t, store, "recipient").Equal(decimal.NewFromInt(50)))
}

func TestAddFundsInvalidAmount(t *testing.T) {
	_, uc := newFundingFixture(t)

	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-5),
		decimal.NewFromInt(10001),
	} {
		_, err := uc.AddFunds(&fundingdto.AddFundsInput{
			MemberID: "recipient",
			Amount:   amount,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %s", amount)
	}
}

func TestAddFundsAmountRounded(t *testing.T) {
	store, uc := newFundingFixture(t)

	output, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID: "recipient",
		Amount:   decimal.RequireFromString("10.005"),
	})
	require.NoError(t, err)

	// Банковское округление до двух знаков
	assert.True(t, output.CreditedEntry.Amount.Equal(decimal.RequireFromString("10.00")), "got %s", output.CreditedEntry.Amount)
	assert.True(t, mustBalance(t, store, "recipient").Equal(decimal.RequireFromString("10.00")))
}

func TestAddFundsUnknownMember(t *testing.T) {
	_, uc := newFundingFixture(t)

	_, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID: "nobody",
		Amount:   decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownMember)
}

func TestAddFundsInactiveMember(t *testing.T) {
	store := memory.NewStore()
	store.AddMember(&domain.Member{ID: "frozen", Active: false})
	calc := NewDefaultCommissionCalculator(store, defaultRates())
	uc := NewDefaultFundingUsecase(store, calc, nil, nil, 10000)

	_, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID: "frozen",
		Amount:   decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrMemberInactive)
	assert.True(t, mustBalance(t, store, "frozen").IsZero())
}

// brokenLedgerRepo возвращает одну и ту же инфраструктурную ошибку
// из всех методов
type brokenLedgerRepo struct{ err error }

func (r brokenLedgerRepo) CreateMember(*domain.Member) error { return r.err }
func (r brokenLedgerRepo) GetMemberByID(string) (*domain.Member, error) {
	return nil, r.err
}
func (r brokenLedgerRepo) GetBalance(string) (decimal.Decimal, error) {
	return decimal.Zero, r.err
}
func (r brokenLedgerRepo) Credit(domain.LedgerOp) (*domain.LedgerEntry, error) {
	return nil, r.err
}
func (r brokenLedgerRepo) Debit(domain.LedgerOp) (*domain.LedgerEntry, error) {
	return nil, r.err
}
func (r brokenLedgerRepo) PostFunding(*domain.FundingPlan) ([]*domain.LedgerEntry, error) {
	return nil, r.err
}
func (r brokenLedgerRepo) FindEntryByExternalTxRef(string) (*domain.LedgerEntry, error) {
	return nil, r.err
}
func (r brokenLedgerRepo) GetEntriesByMemberID(string, int64, int64) ([]*domain.LedgerEntry, int64, error) {
	return nil, 0, r.err
}

func TestAddFundsStoreErrorPassthrough(t *testing.T) {
	connErr := errors.New("connection refused")
	repo := brokenLedgerRepo{err: connErr}
	uc := NewDefaultFundingUsecase(repo, NewDefaultCommissionCalculator(repo, defaultRates()), nil, nil, 10000)

	_, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID: "member",
		Amount:   decimal.NewFromInt(10),
	})
	// Сбой хранилища не маскируется под "участник не найден"
	assert.ErrorIs(t, err, connErr)
	assert.NotErrorIs(t, err, domain.ErrUnknownMember)
}

func TestAddFundsCyclicChain(t *testing.T) {
	store := memory.NewStore()
	store.AddMember(&domain.Member{ID: "a", SponsorID: "b", Active: true})
	store.AddMember(&domain.Member{ID: "b", SponsorID: "a", Active: true})
	calc := NewDefaultCommissionCalculator(store, defaultRates())
	uc := NewDefaultFundingUsecase(store, calc, nil, nil, 10000)

	_, err := uc.AddFunds(&fundingdto.AddFundsInput{
		MemberID:           "a",
		Amount:             decimal.NewFromInt(10),
		IncludeCommissions: true,
	})
	assert.ErrorIs(t, err, domain.ErrCyclicSponsorChain)

	// Ничего не зачислено
	assert.True(t, mustBalance(t, store, "a").IsZero())
}
