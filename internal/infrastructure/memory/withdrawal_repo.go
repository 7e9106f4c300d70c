package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
)

// CreateRequestWithHold создает заявку и холдирует net одной операцией:
// наружу не видно заявки без холда и холда без заявки
func (s *Store) CreateRequestWithHold(request *domain.WithdrawalRequest) error {
	unlock := s.lockMembers([]string{request.MemberID})
	defer unlock()

	hold := domain.LedgerOp{
		MemberID:         request.MemberID,
		Amount:           request.Net.Neg(),
		Kind:             domain.KindWithdrawalHold,
		RelatedRequestID: request.ID,
	}
	if err := s.validateOp(hold); err != nil {
		return err
	}

	s.requestMu.Lock()
	if _, exists := s.requests[request.ID]; exists {
		s.requestMu.Unlock()
		return domain.ErrDuplicateTransaction
	}
	s.requestMu.Unlock()

	s.applyOp(hold)

	now := time.Now()
	clone := *request
	clone.Status = domain.StatusPending
	clone.CreatedAt = now
	clone.UpdatedAt = now

	s.requestMu.Lock()
	s.requests[request.ID] = &clone
	s.requestMu.Unlock()

	request.Status = clone.Status
	request.CreatedAt = clone.CreatedAt
	request.UpdatedAt = clone.UpdatedAt
	return nil
}

func (s *Store) GetRequestByID(requestID string) (*domain.WithdrawalRequest, error) {
	s.requestMu.Lock()
	defer s.requestMu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	clone := *request
	return &clone, nil
}

func (s *Store) GetRequests(filters domain.WithdrawalFilters, page, limit int64) ([]*domain.WithdrawalRequest, int64, error) {
	s.requestMu.Lock()
	matched := make([]*domain.WithdrawalRequest, 0, len(s.requests))
	for _, request := range s.requests {
		if !matchFilters(request, filters) {
			continue
		}
		clone := *request
		matched = append(matched, &clone)
	}
	s.requestMu.Unlock()

	// Свежие заявки первыми, как в админке
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= total {
		return []*domain.WithdrawalRequest{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matchFilters(request *domain.WithdrawalRequest, filters domain.WithdrawalFilters) bool {
	if filters.MemberID != "" && request.MemberID != filters.MemberID {
		return false
	}
	if len(filters.Statuses) > 0 {
		found := false
		for _, status := range filters.Statuses {
			if string(request.Status) == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(request.ID), needle) &&
			!strings.Contains(strings.ToLower(request.MemberID), needle) {
			return false
		}
	}
	return true
}

// ProcessTransition - смена статуса и связанные проводки коммитятся вместе.
// Проверка текущего статуса выполняется под замком участника
func (s *Store) ProcessTransition(requestID string, from, to domain.WithdrawalStatus, externalTxRef string, ops []domain.LedgerOp) error {
	if !domain.AllowedTransition(from, to) {
		return domain.ErrInvalidStateTransition
	}

	s.requestMu.Lock()
	request, ok := s.requests[requestID]
	s.requestMu.Unlock()
	if !ok {
		return domain.ErrRequestNotFound
	}

	unlock := s.lockMembers([]string{request.MemberID})
	defer unlock()

	if request.Status != from {
		if from == domain.StatusPending {
			return domain.ErrRequestNotPending
		}
		return domain.ErrInvalidStateTransition
	}

	for _, op := range ops {
		if err := s.validateOp(op); err != nil {
			return err
		}
	}
	for _, op := range ops {
		s.applyOp(op)
	}

	s.requestMu.Lock()
	request.Status = to
	if externalTxRef != "" {
		request.ExternalTxRef = externalTxRef
	}
	request.UpdatedAt = time.Now()
	s.requestMu.Unlock()

	return nil
}
