package repository

import (
	"errors"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultLedgerRepository struct {
	DB *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{DB: db}
}

func (r *DefaultLedgerRepository) CreateMember(member *domain.Member) error {
	memberModel := mappers.ToGORMMember(member)
	if err := r.DB.Create(memberModel).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrMemberAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUnknownMember
		}
		return err
	}
	return nil
}

func (r *DefaultLedgerRepository) GetMemberByID(memberID string) (*domain.Member, error) {
	var member models.MemberModel
	if err := r.DB.First(&member, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownMember
		}
		return nil, err
	}
	return mappers.ToDomainMember(&member), nil
}

func (r *DefaultLedgerRepository) GetBalance(memberID string) (decimal.Decimal, error) {
	member, err := r.GetMemberByID(memberID)
	if err != nil {
		return decimal.Zero, err
	}
	return member.Balance, nil
}

// applyOp - вставка проводки и обновление кэша баланса внутри транзакции.
// Строка участника берется с FOR UPDATE, чтобы конкурентные проводки
// не потеряли обновление баланса
func applyOp(tx *gorm.DB, op domain.LedgerOp) (*models.LedgerEntryModel, error) {
	var member models.MemberModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&member, "id = ?", op.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownMember
		}
		return nil, err
	}

	newBalance := member.Balance.Add(op.Amount)
	if newBalance.IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}

	entry := mappers.ToGORMEntry(&domain.LedgerEntry{
		ID:               uuid.New().String(),
		MemberID:         op.MemberID,
		Amount:           op.Amount,
		Kind:             op.Kind,
		RelatedRequestID: op.RelatedRequestID,
		ExternalTxRef:    op.ExternalTxRef,
		CreatedAt:        time.Now(),
	})
	if err := tx.Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateTransaction
		}
		return nil, err
	}

	if err := tx.Model(&models.MemberModel{}).
		Where("id = ?", op.MemberID).
		Updates(map[string]interface{}{
			"balance":    newBalance,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return nil, err
	}

	return entry, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func (r *DefaultLedgerRepository) Credit(op domain.LedgerOp) (*domain.LedgerEntry, error) {
	if !op.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	return r.postSingle(op)
}

func (r *DefaultLedgerRepository) Debit(op domain.LedgerOp) (*domain.LedgerEntry, error) {
	if !op.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	op.Amount = op.Amount.Neg()
	return r.postSingle(op)
}

func (r *DefaultLedgerRepository) postSingle(op domain.LedgerOp) (*domain.LedgerEntry, error) {
	var entryModel *models.LedgerEntryModel
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		entryModel, err = applyOp(tx, op)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainEntry(entryModel), nil
}

// PostFunding применяет план пополнения целиком: кредит получателю и все
// комиссии коммитятся одной транзакцией
func (r *DefaultLedgerRepository) PostFunding(plan *domain.FundingPlan) ([]*domain.LedgerEntry, error) {
	entryModels := make([]*models.LedgerEntryModel, 0, len(plan.Commissions)+1)
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		entryModel, err := applyOp(tx, plan.Recipient)
		if err != nil {
			return err
		}
		entryModels = append(entryModels, entryModel)

		for _, op := range plan.Commissions {
			entryModel, err := applyOp(tx, op)
			if err != nil {
				return err
			}
			entryModels = append(entryModels, entryModel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(entryModels))
	for _, entryModel := range entryModels {
		entries = append(entries, mappers.ToDomainEntry(entryModel))
	}
	return entries, nil
}

func (r *DefaultLedgerRepository) FindEntryByExternalTxRef(txRef string) (*domain.LedgerEntry, error) {
	var entry models.LedgerEntryModel
	if err := r.DB.First(&entry, "external_tx_ref = ?", txRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEntry(&entry), nil
}

func (r *DefaultLedgerRepository) GetEntriesByMemberID(memberID string, page, limit int64) ([]*domain.LedgerEntry, int64, error) {
	var entryModels []models.LedgerEntryModel
	var total int64

	baseQuery := r.DB.Model(&models.LedgerEntryModel{}).
		Where("member_id = ?", memberID)

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
		Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, mappers.ToDomainEntry(&entryModels[i]))
	}
	return entries, total, nil
}
