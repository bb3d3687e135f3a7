// file: internals/features/social/dto/social_dto.go
package dto

import (
	"time"

	"schoolchamps_backend/internals/features/social/model"
)

type FanoutRequest struct {
	Message   string                 `json:"message" validate:"omitempty,max=2000"`
	Platforms []model.SocialPlatform `json:"platforms" validate:"omitempty,dive,oneof=facebook instagram linkedin"`
}

type ConnectFacebookRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	PageID      string `json:"page_id" validate:"required"`
	// optional: also wires the instagram business account behind the page
	InstagramBusinessID string     `json:"instagram_business_id" validate:"omitempty"`
	ExpiresAt           *time.Time `json:"expires_at" validate:"omitempty"`
}

type LinkedInCallbackRequest struct {
	Code string `json:"code" validate:"required"`
	// State must echo the value embedded in the auth URL.
	State string `json:"state" validate:"required"`
}

type SelectTargetRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

// ConnectionStatusResponse is the client-safe view: never the token,
// only whether a usable one exists.
type ConnectionStatusResponse struct {
	Platform  model.SocialPlatform `json:"platform"`
	Connected bool                 `json:"connected"`
	TargetID  *string              `json:"target_id,omitempty"`
	ExpiresAt *time.Time           `json:"expires_at,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func FromConnectionModel(m *model.SocialConnectionModel) ConnectionStatusResponse {
	return ConnectionStatusResponse{
		Platform:  m.SocialConnectionPlatform,
		Connected: m.SocialConnectionConnected,
		TargetID:  m.SocialConnectionTargetID,
		ExpiresAt: m.SocialConnectionExpiresAt,
		UpdatedAt: m.SocialConnectionUpdatedAt,
	}
}

// StatusListResponse always covers every platform; missing rows show up
// as disconnected instead of being absent.
func StatusListResponse(rows []model.SocialConnectionModel) []ConnectionStatusResponse {
	byPlatform := make(map[model.SocialPlatform]*model.SocialConnectionModel, len(rows))
	for i := range rows {
		byPlatform[rows[i].SocialConnectionPlatform] = &rows[i]
	}
	out := make([]ConnectionStatusResponse, 0, len(model.AllPlatforms()))
	for _, p := range model.AllPlatforms() {
		if row, ok := byPlatform[p]; ok {
			out = append(out, FromConnectionModel(row))
		} else {
			out = append(out, ConnectionStatusResponse{Platform: p, Connected: false})
		}
	}
	return out
}
