package http

import (
	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/pkg/connectorsdk"
)

func toAccountResponse(a domain.Account) connectorsdk.AccountResponse {
	return connectorsdk.AccountResponse{
		ID:          a.ID,
		Platform:    a.Platform.String(),
		ExternalID:  a.ExternalID,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
		Active:      a.Active,
		LastUsedAt:  a.LastUsedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
