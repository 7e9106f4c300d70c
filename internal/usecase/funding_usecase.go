package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	publisher "github.com/LavaJover/shvark-ledger-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/metrics"
	fundingdto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/funding"
	"github.com/shopspring/decimal"
)

type FundingUsecase interface {
	AddFunds(input *fundingdto.AddFundsInput) (*fundingdto.AddFundsOutput, error)
}

type DefaultFundingUsecase struct {
	LedgerRepo  domain.LedgerRepository
	Calculator  CommissionCalculator
	Publisher   publisher.EventPublisher
	Metrics     *metrics.LedgerMetrics
	MaxTxAmount decimal.Decimal
}

func NewDefaultFundingUsecase(
	ledgerRepo domain.LedgerRepository,
	calculator CommissionCalculator,
	eventPublisher publisher.EventPublisher,
	ledgerMetrics *metrics.LedgerMetrics,
	maxTxAmount float64) *DefaultFundingUsecase {

	return &DefaultFundingUsecase{
		LedgerRepo:  ledgerRepo,
		Calculator:  calculator,
		Publisher:   eventPublisher,
		Metrics:     ledgerMetrics,
		MaxTxAmount: decimal.NewFromFloat(maxTxAmount),
	}
}

// AddFunds кредитует получателя и раздает комиссии вверх по спонсорской
// цепочке одной атомарной операцией. Повторный вызов с тем же externalTxRef
// отклоняется, двойного зачисления не происходит
func (uc *DefaultFundingUsecase) AddFunds(input *fundingdto.AddFundsInput) (*fundingdto.AddFundsOutput, error) {
	amount := domain.RoundMoney(input.Amount)

	// Валидация до любых мутаций
	if !amount.IsPositive() {
		uc.Metrics.RecordError("add_funds", "invalid_amount")
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if amount.GreaterThan(uc.MaxTxAmount) {
		uc.Metrics.RecordError("add_funds", "invalid_amount")
		return nil, fmt.Errorf("%w: amount exceeds per-transaction ceiling %s", domain.ErrInvalidAmount, uc.MaxTxAmount)
	}

	member, err := uc.LedgerRepo.GetMemberByID(input.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownMember) {
			uc.Metrics.RecordError("add_funds", "unknown_member")
		}
		return nil, err
	}
	if !member.Active {
		uc.Metrics.RecordError("add_funds", "inactive_member")
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberInactive, input.MemberID)
	}

	// Идемпотентность по внешнему референсу платежной сети
	if input.ExternalTxRef != "" {
		if _, err := uc.LedgerRepo.FindEntryByExternalTxRef(input.ExternalTxRef); err == nil {
			uc.Metrics.RecordError("add_funds", "duplicate_transaction")
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateTransaction, input.ExternalTxRef)
		}
	}

	chain, err := uc.Calculator.SponsorChain(member.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCyclicSponsorChain) {
			slog.Error("cyclic sponsor chain detected", "member_id", member.ID)
		}
		return nil, err
	}

	shares, err := uc.Calculator.Calculate(amount, chain, input.IncludeCommissions)
	if err != nil {
		return nil, err
	}

	plan := &domain.FundingPlan{
		Recipient: domain.LedgerOp{
			MemberID:      member.ID,
			Amount:        amount,
			Kind:          domain.KindCredit,
			ExternalTxRef: input.ExternalTxRef,
		},
	}
	for _, share := range shares {
		plan.Commissions = append(plan.Commissions, domain.LedgerOp{
			MemberID: share.SponsorID,
			Amount:   share.Amount,
			Kind:     domain.KindCommission,
		})
	}

	entries, err := uc.LedgerRepo.PostFunding(plan)
	if err != nil {
		uc.Metrics.RecordError("add_funds", "store_failure")
		return nil, err
	}

	totalCommissions := decimal.Zero
	for _, share := range shares {
		totalCommissions = totalCommissions.Add(share.Amount)
		uc.Metrics.RecordCommissionPaid(strconv.Itoa(share.Level), share.Amount.InexactFloat64())
	}
	uc.Metrics.RecordFundsAdded(input.IncludeCommissions, amount.InexactFloat64())

	// Publish to kafka асинхронно
	if uc.Publisher != nil {
		for _, entry := range entries {
			go func(event publisher.LedgerEvent) {
				if err := uc.Publisher.PublishLedgerEvent(event); err != nil {
					slog.Error("failed to publish LedgerEvent", "error", err.Error())
				}
			}(publisher.LedgerEvent{
				EntryID:       entry.ID,
				MemberID:      entry.MemberID,
				Kind:          string(entry.Kind),
				Amount:        entry.Amount.StringFixed(domain.MoneyScale),
				ExternalTxRef: entry.ExternalTxRef,
				CreatedAt:     entry.CreatedAt,
			})
		}
	}

	return &fundingdto.AddFundsOutput{
		CreditedEntry:        entries[0],
		CommissionEntries:    entries[1:],
		Commissions:          shares,
		TotalCommissionsPaid: totalCommissions,
	}, nil
}
