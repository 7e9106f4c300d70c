package domain

type WithdrawalRepository interface {
	// CreateRequestWithHold создает заявку и холдирует net-сумму одной транзакцией
	CreateRequestWithHold(request *WithdrawalRequest) error
	GetRequestByID(requestID string) (*WithdrawalRequest, error)
	GetRequests(filters WithdrawalFilters, page, limit int64) ([]*WithdrawalRequest, int64, error)
	// ProcessTransition - критичная операция: смена статуса и связанные
	// проводки коммитятся вместе или никак. Проверка from выполняется
	// под блокировкой: несоответствие = ErrRequestNotPending
	ProcessTransition(requestID string, from, to WithdrawalStatus, externalTxRef string, ops []LedgerOp) error
}
