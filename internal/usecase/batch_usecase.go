package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/metrics"
	batchdto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/batch"
)

type BatchUsecase interface {
	RunBatch(ctx context.Context, requestIDs []string, executor domain.PaymentExecutor) (*batchdto.BatchReport, error)
	RunBulkReject(ctx context.Context, requestIDs []string) (*batchdto.BatchReport, error)
}

type DefaultBatchUsecase struct {
	WithdrawalUsecase WithdrawalUsecase
	Pause             time.Duration
	Metrics           *metrics.LedgerMetrics
}

func NewDefaultBatchUsecase(withdrawalUsecase WithdrawalUsecase, pause time.Duration, ledgerMetrics *metrics.LedgerMetrics) *DefaultBatchUsecase {
	return &DefaultBatchUsecase{
		WithdrawalUsecase: withdrawalUsecase,
		Pause:             pause,
		Metrics:           ledgerMetrics,
	}
}

// RunBatch прогоняет платежи строго последовательно: внешняя сеть не любит
// параллельные транзакции, а отчет должен быть детерминированным.
// Ошибка одного элемента никогда не роняет весь батч
func (uc *DefaultBatchUsecase) RunBatch(ctx context.Context, requestIDs []string, executor domain.PaymentExecutor) (*batchdto.BatchReport, error) {
	start := time.Now()
	report := &batchdto.BatchReport{}

	for i, requestID := range requestIDs {
		// Остановка по сигналу отмены: уже отправленные платежи не отзываем,
		// просто не выдаем следующие
		if ctx.Err() != nil {
			slog.Info("batch run stopped by caller", "processed", i, "total", len(requestIDs))
			break
		}

		request, err := uc.WithdrawalUsecase.GetRequestByID(requestID)
		if err != nil {
			report.Skipped = append(report.Skipped, batchdto.BatchItem{
				RequestID: requestID,
				Reason:    batchdto.SkippedNotFound,
			})
			uc.Metrics.RecordBatchItem("pay", "skipped")
			continue
		}

		// Платим только по pending: статус мог поменять другой оператор
		if request.Status != domain.StatusPending {
			report.Skipped = append(report.Skipped, uc.skippedItem(request))
			uc.Metrics.RecordBatchItem("pay", "skipped")
			continue
		}

		txRef, err := executor.Pay(ctx, request.WalletAddress, request.Net, request.Gateway)
		if err != nil {
			slog.Error("batch payment failed", "request_id", request.ID, "error", err.Error())
			report.Failed = append(report.Failed, batchdto.BatchItem{
				RequestID: request.ID,
				MemberID:  request.MemberID,
				Amount:    request.Net,
				Error:     err.Error(),
			})
			uc.Metrics.RecordBatchItem("pay", "failed")
			uc.pauseBetweenItems(ctx, i, len(requestIDs))
			continue
		}

		if err := uc.WithdrawalUsecase.Approve(request.ID, txRef); err != nil {
			// Платеж ушел, но заявку успели перевести - фиксируем как skip,
			// референс сохраняем в отчете для ручной сверки
			slog.Error("approve after payment failed", "request_id", request.ID, "tx_ref", txRef, "error", err.Error())
			item := uc.skippedItem(request)
			item.ExternalTxRef = txRef
			report.Skipped = append(report.Skipped, item)
			uc.Metrics.RecordBatchItem("pay", "skipped")
			uc.pauseBetweenItems(ctx, i, len(requestIDs))
			continue
		}

		report.Succeeded = append(report.Succeeded, batchdto.BatchItem{
			RequestID:     request.ID,
			MemberID:      request.MemberID,
			Amount:        request.Net,
			ExternalTxRef: txRef,
		})
		uc.Metrics.RecordBatchItem("pay", "succeeded")
		uc.pauseBetweenItems(ctx, i, len(requestIDs))
	}

	uc.Metrics.RecordBatchRunDuration("pay", time.Since(start).Seconds())
	return report, nil
}

// RunBulkReject отклоняет заявки независимо друг от друга с той же
// изоляцией ошибок, что и платежный прогон
func (uc *DefaultBatchUsecase) RunBulkReject(ctx context.Context, requestIDs []string) (*batchdto.BatchReport, error) {
	start := time.Now()
	report := &batchdto.BatchReport{}

	for _, requestID := range requestIDs {
		if ctx.Err() != nil {
			break
		}

		request, err := uc.WithdrawalUsecase.GetRequestByID(requestID)
		if err != nil {
			report.Skipped = append(report.Skipped, batchdto.BatchItem{
				RequestID: requestID,
				Reason:    batchdto.SkippedNotFound,
			})
			uc.Metrics.RecordBatchItem("reject", "skipped")
			continue
		}

		if request.Status != domain.StatusPending {
			report.Skipped = append(report.Skipped, uc.skippedItem(request))
			uc.Metrics.RecordBatchItem("reject", "skipped")
			continue
		}

		if err := uc.WithdrawalUsecase.Reject(request.ID); err != nil {
			report.Failed = append(report.Failed, batchdto.BatchItem{
				RequestID: request.ID,
				MemberID:  request.MemberID,
				Amount:    request.Net,
				Error:     err.Error(),
			})
			uc.Metrics.RecordBatchItem("reject", "failed")
			continue
		}

		report.Succeeded = append(report.Succeeded, batchdto.BatchItem{
			RequestID: request.ID,
			MemberID:  request.MemberID,
			Amount:    request.Net,
		})
		uc.Metrics.RecordBatchItem("reject", "succeeded")
	}

	uc.Metrics.RecordBatchRunDuration("reject", time.Since(start).Seconds())
	return report, nil
}

func (uc *DefaultBatchUsecase) skippedItem(request *domain.WithdrawalRequest) batchdto.BatchItem {
	return batchdto.BatchItem{
		RequestID: request.ID,
		MemberID:  request.MemberID,
		Amount:    request.Net,
		Reason:    batchdto.SkippedStateChanged,
	}
}

func (uc *DefaultBatchUsecase) pauseBetweenItems(ctx context.Context, index, total int) {
	if uc.Pause <= 0 || index >= total-1 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(uc.Pause):
	}
}
