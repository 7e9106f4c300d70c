package batchdto

import "github.com/shopspring/decimal"

// Причины пропуска элемента батча, не являющиеся ошибками
const (
	SkippedStateChanged = "state_changed"
	SkippedNotFound     = "not_found"
)

type BatchItem struct {
	RequestID     string
	MemberID      string
	Amount        decimal.Decimal
	ExternalTxRef string
	Error         string
	Reason        string
}

type BatchReport struct {
	Succeeded []BatchItem
	Failed    []BatchItem
	Skipped   []BatchItem
}

func (r *BatchReport) Total() int {
	return len(r.Succeeded) + len(r.Failed) + len(r.Skipped)
}
