package dto

import "github.com/turtacn/coursehub/pkg/constants"

// TokenResponse is returned by login, register and logout.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewTokenResponse wraps an access token with the Bearer token type.
func NewTokenResponse(token string) *TokenResponse {
	return &TokenResponse{
		AccessToken: token,
		TokenType:   string(constants.TokenTypeBearer),
	}
}

// IssueTokenRequest is used by the admin CLI to mint a token for an existing user.
type IssueTokenRequest struct {
	Email      string `json:"email" validate:"required,email"`
	TTLMinutes int    `json:"ttl_minutes" validate:"gte=0"`
}
