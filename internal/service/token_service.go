package service

import (
	"context"

	"github.com/google/uuid"

	"shortkey/internal/entities"
	"shortkey/internal/models"
	"shortkey/internal/repository"
)

// TokenService mints and lists API tokens, long-lived bearer credentials that
// the identity middleware accepts alongside JWTs.
type TokenService interface {
	Create(ctx context.Context, userID int64, label string) (*models.TokenResponse, error)
	List(ctx context.Context, userID int64) ([]*models.TokenResponse, error)
}

type tokenService struct {
	tokens repository.TokenRepository
}

// NewTokenService creates a new token service
func NewTokenService(tokens repository.TokenRepository) TokenService {
	return &tokenService{tokens: tokens}
}

func (s *tokenService) Create(ctx context.Context, userID int64, label string) (*models.TokenResponse, error) {
	token, err := s.tokens.Create(ctx, userID, uuid.New(), label)
	if err != nil {
		return nil, err
	}
	return toTokenResponse(token), nil
}

func (s *tokenService) List(ctx context.Context, userID int64) ([]*models.TokenResponse, error) {
	tokens, err := s.tokens.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.TokenResponse, len(tokens))
	for i, token := range tokens {
		responses[i] = toTokenResponse(token)
	}
	return responses, nil
}

func toTokenResponse(t *entities.APIToken) *models.TokenResponse {
	resp := &models.TokenResponse{
		ID:        t.ID,
		Token:     t.Token.String(),
		Label:     t.Label,
		CreatedAt: t.CreatedAt.Unix(),
	}
	if t.LastUsedAt != nil {
		lastUsed := t.LastUsedAt.Unix()
		resp.LastUsedAt = &lastUsed
	}
	return resp
}
