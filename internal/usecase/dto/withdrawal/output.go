package withdrawaldto

import "github.com/LavaJover/shvark-ledger-service/internal/domain"

type Pagination struct {
	CurrentPage  int64
	TotalPages   int64
	TotalItems   int64
	ItemsPerPage int64
}

type GetRequestsOutput struct {
	Requests   []*domain.WithdrawalRequest
	Pagination Pagination
}
