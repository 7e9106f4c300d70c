package mappers

import (
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/models"
)

func ToDomainWithdrawal(model *models.WithdrawalRequestModel) *domain.WithdrawalRequest {
	return &domain.WithdrawalRequest{
		ID:            model.ID,
		MemberID:      model.MemberID,
		Gross:         model.Gross,
		Charges:       model.Charges,
		Net:           model.Net,
		WalletAddress: model.WalletAddress,
		Status:        model.Status,
		Gateway:       model.Gateway,
		ExternalTxRef: model.ExternalTxRef,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMWithdrawal(request *domain.WithdrawalRequest) *models.WithdrawalRequestModel {
	return &models.WithdrawalRequestModel{
		ID:            request.ID,
		MemberID:      request.MemberID,
		Gross:         request.Gross,
		Charges:       request.Charges,
		Net:           request.Net,
		WalletAddress: request.WalletAddress,
		Status:        request.Status,
		Gateway:       request.Gateway,
		ExternalTxRef: request.ExternalTxRef,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}
