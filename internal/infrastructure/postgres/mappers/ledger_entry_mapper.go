package mappers

import (
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/models"
)

func ToDomainEntry(model *models.LedgerEntryModel) *domain.LedgerEntry {
	txRef := ""
	if model.ExternalTxRef != nil {
		txRef = *model.ExternalTxRef
	}
	return &domain.LedgerEntry{
		ID:               model.ID,
		MemberID:         model.MemberID,
		Amount:           model.Amount,
		Kind:             domain.EntryKind(model.Kind),
		RelatedRequestID: model.RelatedRequestID,
		ExternalTxRef:    txRef,
		CreatedAt:        model.CreatedAt,
	}
}

// ToGORMEntry - пустой ExternalTxRef хранится как NULL,
// иначе уникальный индекс запретил бы вторую проводку без референса
func ToGORMEntry(entry *domain.LedgerEntry) *models.LedgerEntryModel {
	var txRef *string
	if entry.ExternalTxRef != "" {
		ref := entry.ExternalTxRef
		txRef = &ref
	}
	return &models.LedgerEntryModel{
		ID:               entry.ID,
		MemberID:         entry.MemberID,
		Amount:           entry.Amount,
		Kind:             string(entry.Kind),
		RelatedRequestID: entry.RelatedRequestID,
		ExternalTxRef:    txRef,
		CreatedAt:        entry.CreatedAt,
	}
}
