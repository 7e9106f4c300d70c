package setup

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/config"
	"github.com/LavaJover/shvark-ledger-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-ledger-service/internal/usecase"
)

type UseCases struct {
	FundingUsecase    usecase.FundingUsecase
	WithdrawalUsecase usecase.WithdrawalUsecase
	BatchUsecase      usecase.BatchUsecase
	PaymentHandler    *handlers.HTTPPaymentHandler
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	paymentHandler, err := initPaymentHandler(deps.Config)
	if err != nil {
		return nil, fmt.Errorf("payment handler: %w", err)
	}

	calculator := usecase.NewDefaultCommissionCalculator(
		deps.Repositories.LedgerRepo,
		deps.Config.Funding.CommissionRates,
	)

	fundingUsecase := usecase.NewDefaultFundingUsecase(
		deps.Repositories.LedgerRepo,
		calculator,
		deps.EventPublisher,
		deps.Metrics,
		deps.Config.Funding.MaxTxAmount,
	)

	withdrawalUsecase := usecase.NewDefaultWithdrawalUsecase(
		deps.Repositories.WithdrawalRepo,
		deps.Repositories.LedgerRepo,
		deps.EventPublisher,
		deps.Metrics,
	)

	batchUsecase := usecase.NewDefaultBatchUsecase(
		withdrawalUsecase,
		time.Duration(deps.Config.Batch.PauseMs)*time.Millisecond,
		deps.Metrics,
	)

	return &UseCases{
		FundingUsecase:    fundingUsecase,
		WithdrawalUsecase: withdrawalUsecase,
		BatchUsecase:      batchUsecase,
		PaymentHandler:    paymentHandler,
	}, nil
}

func initPaymentHandler(cfg *config.LedgerConfig) (*handlers.HTTPPaymentHandler, error) {
	return handlers.NewHTTPPaymentHandler(
		fmt.Sprintf("%s:%s", cfg.PaymentService.Host, cfg.PaymentService.Port),
		time.Duration(cfg.PaymentService.TimeoutMs)*time.Millisecond,
	)
}
