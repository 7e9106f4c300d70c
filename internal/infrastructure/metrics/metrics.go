package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerMetrics содержит все метрики движка леджера
type LedgerMetrics struct {
	// Пополнения
	FundsAddedTotal       prometheus.CounterVec
	FundsAddedAmountTotal prometheus.CounterVec

	// Комиссии спонсорам
	CommissionsPaidTotal       prometheus.CounterVec
	CommissionsPaidAmountTotal prometheus.CounterVec

	// Переходы заявок на вывод
	WithdrawalTransitionsTotal prometheus.CounterVec
	WithdrawalRefundedAmountTotal prometheus.CounterVec

	// Батчевые прогоны платежей
	BatchItemsTotal   prometheus.CounterVec
	BatchRunDuration  prometheus.HistogramVec

	// Ошибки
	LedgerErrorsTotal prometheus.CounterVec
}

// NewLedgerMetrics создает новый экземпляр метрик
func NewLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		FundsAddedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_funds_added_total",
				Help: "Общее количество операций пополнения",
			},
			[]string{"with_commissions"},
		),

		FundsAddedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_funds_added_amount_total",
				Help: "Общая сумма пополнений в USD",
			},
			[]string{"with_commissions"},
		),

		CommissionsPaidTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_commissions_paid_total",
				Help: "Общее количество комиссионных начислений спонсорам",
			},
			[]string{"level"},
		),

		CommissionsPaidAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_commissions_paid_amount_total",
				Help: "Общая сумма комиссий спонсорам в USD",
			},
			[]string{"level"},
		),

		WithdrawalTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "withdrawal_transitions_total",
				Help: "Количество переходов заявок на вывод по статусам",
			},
			[]string{"from", "to"},
		),

		WithdrawalRefundedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "withdrawal_refunded_amount_total",
				Help: "Общая сумма возвратов по отклоненным и отмененным заявкам",
			},
			[]string{"status"},
		),

		BatchItemsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_items_total",
				Help: "Элементы батчевых прогонов по исходу",
			},
			[]string{"operation", "outcome"},
		),

		BatchRunDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "batch_run_duration_seconds",
				Help:    "Длительность батчевого прогона в секундах",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s, 2s, 4s, 8s...
			},
			[]string{"operation"},
		),

		LedgerErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_errors_total",
				Help: "Общее количество ошибок операций леджера",
			},
			[]string{"operation", "error_type"},
		),
	}
}

// RecordFundsAdded записывает пополнение
func (m *LedgerMetrics) RecordFundsAdded(withCommissions bool, amount float64) {
	if m == nil {
		return
	}
	label := "false"
	if withCommissions {
		label = "true"
	}
	m.FundsAddedTotal.WithLabelValues(label).Inc()
	m.FundsAddedAmountTotal.WithLabelValues(label).Add(amount)
}

// RecordCommissionPaid записывает комиссию спонсору
func (m *LedgerMetrics) RecordCommissionPaid(level string, amount float64) {
	if m == nil {
		return
	}
	m.CommissionsPaidTotal.WithLabelValues(level).Inc()
	m.CommissionsPaidAmountTotal.WithLabelValues(level).Add(amount)
}

// RecordWithdrawalTransition записывает переход заявки
func (m *LedgerMetrics) RecordWithdrawalTransition(from, to string) {
	if m == nil {
		return
	}
	m.WithdrawalTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordWithdrawalRefund записывает возврат холда
func (m *LedgerMetrics) RecordWithdrawalRefund(status string, amount float64) {
	if m == nil {
		return
	}
	m.WithdrawalRefundedAmountTotal.WithLabelValues(status).Add(amount)
}

// RecordBatchItem записывает исход элемента батча
func (m *LedgerMetrics) RecordBatchItem(operation, outcome string) {
	if m == nil {
		return
	}
	m.BatchItemsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordBatchRunDuration записывает длительность прогона
func (m *LedgerMetrics) RecordBatchRunDuration(operation string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.BatchRunDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordError записывает ошибку
func (m *LedgerMetrics) RecordError(operation, errorType string) {
	if m == nil {
		return
	}
	m.LedgerErrorsTotal.WithLabelValues(operation, errorType).Inc()
}
