package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultWithdrawalRepository struct {
	DB *gorm.DB
}

func NewDefaultWithdrawalRepository(db *gorm.DB) *DefaultWithdrawalRepository {
	return &DefaultWithdrawalRepository{DB: db}
}

// CreateRequestWithHold - заявка и холд net-суммы коммитятся вместе:
// наружу не видно заявки без холда и холда без заявки
func (r *DefaultWithdrawalRepository) CreateRequestWithHold(request *domain.WithdrawalRequest) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		hold := domain.LedgerOp{
			MemberID:         request.MemberID,
			Amount:           request.Net.Neg(),
			Kind:             domain.KindWithdrawalHold,
			RelatedRequestID: request.ID,
		}
		if _, err := applyOp(tx, hold); err != nil {
			return err
		}

		request.Status = domain.StatusPending
		requestModel := mappers.ToGORMWithdrawal(request)
		if err := tx.Create(requestModel).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateTransaction
			}
			return err
		}
		return nil
	})
}

func (r *DefaultWithdrawalRepository) GetRequestByID(requestID string) (*domain.WithdrawalRequest, error) {
	var requestModel models.WithdrawalRequestModel
	if err := r.DB.First(&requestModel, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return mappers.ToDomainWithdrawal(&requestModel), nil
}

func (r *DefaultWithdrawalRepository) GetRequests(filters domain.WithdrawalFilters, page, limit int64) ([]*domain.WithdrawalRequest, int64, error) {
	var requestModels []models.WithdrawalRequestModel
	var total int64

	baseQuery := r.DB.Model(&models.WithdrawalRequestModel{})

	if len(filters.Statuses) > 0 {
		baseQuery = baseQuery.Where("status IN (?)", filters.Statuses)
	}
	if filters.MemberID != "" {
		baseQuery = baseQuery.Where("member_id = ?", filters.MemberID)
	}
	if filters.Search != "" {
		needle := "%" + strings.ToLower(filters.Search) + "%"
		baseQuery = baseQuery.Where("LOWER(id) LIKE ? OR LOWER(member_id) LIKE ?", needle, needle)
	}

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	if err := baseQuery.
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&requestModels).Error; err != nil {
		return nil, 0, err
	}

	requests := make([]*domain.WithdrawalRequest, 0, len(requestModels))
	for i := range requestModels {
		requests = append(requests, mappers.ToDomainWithdrawal(&requestModels[i]))
	}
	return requests, total, nil
}

// ProcessTransition - критичная операция над заявкой: проверка текущего
// статуса, смена статуса и связанные проводки в одной транзакции.
// Строка заявки берется с FOR UPDATE, конкурентный оператор получит
// ошибку, а не двойной рефанд
func (r *DefaultWithdrawalRepository) ProcessTransition(requestID string, from, to domain.WithdrawalStatus, externalTxRef string, ops []domain.LedgerOp) error {
	if !domain.AllowedTransition(from, to) {
		return domain.ErrInvalidStateTransition
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		var requestModel models.WithdrawalRequestModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&requestModel, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRequestNotFound
			}
			return err
		}

		if requestModel.Status != from {
			if from == domain.StatusPending {
				return domain.ErrRequestNotPending
			}
			return domain.ErrInvalidStateTransition
		}

		for _, op := range ops {
			if _, err := applyOp(tx, op); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		}
		if externalTxRef != "" {
			updates["external_tx_ref"] = externalTxRef
		}
		if err := tx.Model(&models.WithdrawalRequestModel{}).
			Where("id = ?", requestID).
			Updates(updates).Error; err != nil {
			return err
		}
		return nil
	})
}
