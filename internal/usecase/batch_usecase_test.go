package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/memory"
	batchdto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/batch"
	withdrawaldto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/withdrawal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor платит всем, кроме адресов из failAddresses
type fakeExecutor struct {
	failAddresses map[string]bool
	calls         int
	gateways      []string
}

func (f *fakeExecutor) Pay(ctx context.Context, destinationAddress string, amount decimal.Decimal, gateway string) (string, error) {
	f.calls++
	f.gateways = append(f.gateways, gateway)
	if f.failAddresses[destinationAddress] {
		return "", errors.New("gateway refused the payment")
	}
	return fmt.Sprintf("tx-%d", f.calls), nil
}

func walletForIndex(i int) string {
	return fmt.Sprintf("0x%040d", i)
}

func newBatchFixture(t *testing.T, members int) (*memory.Store, *DefaultWithdrawalUsecase, *DefaultBatchUsecase, []string) {
	t.Helper()
	store := memory.NewStore()
	withdrawalUC := NewDefaultWithdrawalUsecase(store, store, nil, nil)
	batchUC := NewDefaultBatchUsecase(withdrawalUC, 0, nil)

	requestIDs := make([]string, 0, members)
	for i := 0; i < members; i++ {
		memberID := fmt.Sprintf("member-%d", i)
		store.AddMember(&domain.Member{
			ID:      memberID,
			Balance: decimal.NewFromInt(100),
			Active:  true,
		})
		request, err := withdrawalUC.CreateRequest(&withdrawaldto.CreateRequestInput{
			MemberID:      memberID,
			Gross:         decimal.NewFromInt(60),
			Charges:       decimal.NewFromInt(10),
			WalletAddress: walletForIndex(i),
			Gateway:       "bep20",
		})
		require.NoError(t, err)
		requestIDs = append(requestIDs, request.ID)
	}
	return store, withdrawalUC, batchUC, requestIDs
}

func requestIDsOf(items []batchdto.BatchItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.RequestID)
	}
	return ids
}

func TestRunBatchPartialFailure(t *testing.T) {
	_, withdrawalUC, batchUC, requestIDs := newBatchFixture(t, 5)

	executor := &fakeExecutor{failAddresses: map[string]bool{walletForIndex(2): true}}
	report, err := batchUC.RunBatch(context.Background(), requestIDs, executor)
	require.NoError(t, err)

	// Отказ третьего платежа не трогает остальные
	require.Len(t, report.Succeeded, 4)
	require.Len(t, report.Failed, 1)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, 5, report.Total())

	assert.Equal(t, requestIDs[2], report.Failed[0].RequestID)
	assert.Equal(t,
		[]string{requestIDs[0], requestIDs[1], requestIDs[3], requestIDs[4]},
		requestIDsOf(report.Succeeded))

	// Шлюз заявки доезжает до исполнителя платежа
	require.Len(t, executor.gateways, 5)
	for _, gateway := range executor.gateways {
		assert.Equal(t, "bep20", gateway)
	}

	for i, requestID := range requestIDs {
		request, err := withdrawalUC.GetRequestByID(requestID)
		require.NoError(t, err)
		if i == 2 {
			assert.Equal(t, domain.StatusPending, request.Status)
		} else {
			assert.Equal(t, domain.StatusProcessing, request.Status)
			assert.NotEmpty(t, request.ExternalTxRef)
		}
	}
}

func TestRunBatchSkipsNotFound(t *testing.T) {
	_, _, batchUC, requestIDs := newBatchFixture(t, 1)

	executor := &fakeExecutor{}
	report, err := batchUC.RunBatch(context.Background(), []string{"missing", requestIDs[0]}, executor)
	require.NoError(t, err)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "missing", report.Skipped[0].RequestID)
	assert.Equal(t, batchdto.SkippedNotFound, report.Skipped[0].Reason)
	require.Len(t, report.Succeeded, 1)
}

func TestRunBatchSkipsNonPending(t *testing.T) {
	_, withdrawalUC, batchUC, requestIDs := newBatchFixture(t, 2)
	require.NoError(t, withdrawalUC.Reject(requestIDs[0]))

	executor := &fakeExecutor{}
	report, err := batchUC.RunBatch(context.Background(), requestIDs, executor)
	require.NoError(t, err)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, requestIDs[0], report.Skipped[0].RequestID)
	assert.Equal(t, batchdto.SkippedStateChanged, report.Skipped[0].Reason)
	require.Len(t, report.Succeeded, 1)
	// Пропущенной заявке платеж не отправлялся
	assert.Equal(t, 1, executor.calls)
}

func TestRunBatchCancelledContext(t *testing.T) {
	_, withdrawalUC, batchUC, requestIDs := newBatchFixture(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := &fakeExecutor{}
	report, err := batchUC.RunBatch(ctx, requestIDs, executor)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Total())
	assert.Equal(t, 0, executor.calls)

	// Заявки остались нетронутыми
	for _, requestID := range requestIDs {
		request, err := withdrawalUC.GetRequestByID(requestID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, request.Status)
	}
}

func TestRunBulkReject(t *testing.T) {
	store, withdrawalUC, batchUC, requestIDs := newBatchFixture(t, 3)

	report, err := batchUC.RunBulkReject(context.Background(), requestIDs)
	require.NoError(t, err)

	require.Len(t, report.Succeeded, 3)
	for i, requestID := range requestIDs {
		request, err := withdrawalUC.GetRequestByID(requestID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, request.Status)

		balance, err := store.GetBalance(fmt.Sprintf("member-%d", i))
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(100)), "refund for %s", requestID)
	}
}

func TestRunBulkRejectIsolation(t *testing.T) {
	_, withdrawalUC, batchUC, requestIDs := newBatchFixture(t, 3)
	// Вторую заявку уже увели в processing
	require.NoError(t, withdrawalUC.Approve(requestIDs[1], "tx-manual"))

	report, err := batchUC.RunBulkReject(context.Background(), requestIDs)
	require.NoError(t, err)

	require.Len(t, report.Succeeded, 2)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, requestIDs[1], report.Skipped[0].RequestID)
	assert.Equal(t, batchdto.SkippedStateChanged, report.Skipped[0].Reason)
}
