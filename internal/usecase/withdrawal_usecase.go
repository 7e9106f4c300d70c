package usecase

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	publisher "github.com/LavaJover/shvark-ledger-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/metrics"
	withdrawaldto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/withdrawal"
	"github.com/jaevor/go-nanoid"
)

type WithdrawalUsecase interface {
	CreateRequest(input *withdrawaldto.CreateRequestInput) (*domain.WithdrawalRequest, error)
	GetRequestByID(requestID string) (*domain.WithdrawalRequest, error)
	GetRequests(input *withdrawaldto.GetRequestsInput) (*withdrawaldto.GetRequestsOutput, error)
	Approve(requestID, externalTxRef string) error
	Complete(requestID string) error
	Reject(requestID string) error
	Cancel(requestID string) error
}

type DefaultWithdrawalUsecase struct {
	WithdrawalRepo domain.WithdrawalRepository
	LedgerRepo     domain.LedgerRepository
	Publisher      publisher.EventPublisher
	Metrics        *metrics.LedgerMetrics
}

func NewDefaultWithdrawalUsecase(
	withdrawalRepo domain.WithdrawalRepository,
	ledgerRepo domain.LedgerRepository,
	eventPublisher publisher.EventPublisher,
	ledgerMetrics *metrics.LedgerMetrics) *DefaultWithdrawalUsecase {

	return &DefaultWithdrawalUsecase{
		WithdrawalRepo: withdrawalRepo,
		LedgerRepo:     ledgerRepo,
		Publisher:      eventPublisher,
		Metrics:        ledgerMetrics,
	}
}

// CreateRequest создает заявку на вывод и сразу холдирует net-сумму:
// баланс уменьшается в момент создания, возврат только на reject/cancel
func (uc *DefaultWithdrawalUsecase) CreateRequest(input *withdrawaldto.CreateRequestInput) (*domain.WithdrawalRequest, error) {
	gross := domain.RoundMoney(input.Gross)
	charges := domain.RoundMoney(input.Charges)
	net := gross.Sub(charges)

	if !gross.IsPositive() || charges.IsNegative() || !net.IsPositive() {
		return nil, fmt.Errorf("%w: gross %s charges %s", domain.ErrInvalidAmount, gross, charges)
	}
	if !domain.ValidWalletAddress(input.WalletAddress) {
		return nil, domain.ErrInvalidWalletAddress
	}
	member, err := uc.LedgerRepo.GetMemberByID(input.MemberID)
	if err != nil {
		return nil, err
	}
	if !member.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberInactive, input.MemberID)
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	request := &domain.WithdrawalRequest{
		ID:            idGenerator(),
		MemberID:      input.MemberID,
		Gross:         gross,
		Charges:       charges,
		Net:           net,
		WalletAddress: input.WalletAddress,
		Gateway:       input.Gateway,
		Status:        domain.StatusPending,
	}

	if err := uc.WithdrawalRepo.CreateRequestWithHold(request); err != nil {
		uc.Metrics.RecordError("withdrawal_create", "store_failure")
		return nil, err
	}

	uc.publishEvent(request, "")
	return request, nil
}

func (uc *DefaultWithdrawalUsecase) GetRequestByID(requestID string) (*domain.WithdrawalRequest, error) {
	return uc.WithdrawalRepo.GetRequestByID(requestID)
}

func (uc *DefaultWithdrawalUsecase) GetRequests(input *withdrawaldto.GetRequestsInput) (*withdrawaldto.GetRequestsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 50
	}

	requests, total, err := uc.WithdrawalRepo.GetRequests(domain.WithdrawalFilters{
		Statuses: input.Statuses,
		Search:   input.Search,
		MemberID: input.MemberID,
	}, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := total / input.Limit
	if total%input.Limit > 0 {
		totalPages++
	}

	return &withdrawaldto.GetRequestsOutput{
		Requests: requests,
		Pagination: withdrawaldto.Pagination{
			CurrentPage:  input.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: input.Limit,
		},
	}, nil
}

// Approve: pending -> processing, фиксируем референс внешней транзакции.
// Балансовых проводок нет - net уже захолдирован при создании
func (uc *DefaultWithdrawalUsecase) Approve(requestID, externalTxRef string) error {
	if externalTxRef == "" {
		return domain.ErrMissingExternalRef
	}

	err := uc.WithdrawalRepo.ProcessTransition(requestID, domain.StatusPending, domain.StatusProcessing, externalTxRef, nil)
	if err != nil {
		return err
	}

	uc.Metrics.RecordWithdrawalTransition(string(domain.StatusPending), string(domain.StatusProcessing))
	uc.publishTransition(requestID, externalTxRef)
	return nil
}

// Complete: processing -> completed. Release и payout проводки взаимно
// гасятся - баланс не меняется, но в леджере остается след выплаты
func (uc *DefaultWithdrawalUsecase) Complete(requestID string) error {
	request, err := uc.WithdrawalRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}

	ops := []domain.LedgerOp{
		{
			MemberID:         request.MemberID,
			Amount:           request.Net,
			Kind:             domain.KindWithdrawalRelease,
			RelatedRequestID: request.ID,
		},
		{
			MemberID:         request.MemberID,
			Amount:           request.Net.Neg(),
			Kind:             domain.KindWithdrawalPayout,
			RelatedRequestID: request.ID,
			ExternalTxRef:    request.ExternalTxRef,
		},
	}

	err = uc.WithdrawalRepo.ProcessTransition(requestID, domain.StatusProcessing, domain.StatusCompleted, "", ops)
	if err != nil {
		return err
	}

	uc.Metrics.RecordWithdrawalTransition(string(domain.StatusProcessing), string(domain.StatusCompleted))
	uc.publishTransition(requestID, request.ExternalTxRef)
	return nil
}

// Reject: pending -> rejected, захолдированная сумма возвращается на баланс
func (uc *DefaultWithdrawalUsecase) Reject(requestID string) error {
	return uc.refundTransition(requestID, domain.StatusRejected)
}

// Cancel: pending -> cancelled, тот же возврат, отдельный статус для аудита
func (uc *DefaultWithdrawalUsecase) Cancel(requestID string) error {
	return uc.refundTransition(requestID, domain.StatusCancelled)
}

func (uc *DefaultWithdrawalUsecase) refundTransition(requestID string, to domain.WithdrawalStatus) error {
	request, err := uc.WithdrawalRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}

	refund := []domain.LedgerOp{{
		MemberID:         request.MemberID,
		Amount:           request.Net,
		Kind:             domain.KindWithdrawalRelease,
		RelatedRequestID: request.ID,
	}}

	if err := uc.WithdrawalRepo.ProcessTransition(requestID, domain.StatusPending, to, "", refund); err != nil {
		return err
	}

	uc.Metrics.RecordWithdrawalTransition(string(domain.StatusPending), string(to))
	uc.Metrics.RecordWithdrawalRefund(string(to), request.Net.InexactFloat64())
	uc.publishTransition(requestID, "")
	return nil
}

func (uc *DefaultWithdrawalUsecase) publishTransition(requestID, externalTxRef string) {
	request, err := uc.WithdrawalRepo.GetRequestByID(requestID)
	if err != nil {
		slog.Error("failed to load request for event publishing", "request_id", requestID, "error", err.Error())
		return
	}
	uc.publishEvent(request, externalTxRef)
}

func (uc *DefaultWithdrawalUsecase) publishEvent(request *domain.WithdrawalRequest, externalTxRef string) {
	if uc.Publisher == nil {
		return
	}
	if externalTxRef == "" {
		externalTxRef = request.ExternalTxRef
	}
	go func(event publisher.WithdrawalEvent) {
		if err := uc.Publisher.PublishWithdrawalEvent(event); err != nil {
			slog.Error("failed to publish WithdrawalEvent", "error", err.Error())
		}
	}(publisher.WithdrawalEvent{
		RequestID:     request.ID,
		MemberID:      request.MemberID,
		Status:        string(request.Status),
		Net:           request.Net.StringFixed(domain.MoneyScale),
		ExternalTxRef: externalTxRef,
	})
}
