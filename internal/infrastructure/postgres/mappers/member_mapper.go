package mappers

import (
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/models"
)

func ToDomainMember(model *models.MemberModel) *domain.Member {
	return &domain.Member{
		ID:            model.ID,
		Balance:       model.Balance,
		SponsorID:     model.SponsorID,
		WalletAddress: model.WalletAddress,
		Active:        model.Active,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMMember(member *domain.Member) *models.MemberModel {
	return &models.MemberModel{
		ID:            member.ID,
		Balance:       member.Balance,
		SponsorID:     member.SponsorID,
		WalletAddress: member.WalletAddress,
		Active:        member.Active,
		CreatedAt:     member.CreatedAt,
		UpdatedAt:     member.UpdatedAt,
	}
}
