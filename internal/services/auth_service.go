package services

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/gatherly/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

type AuthService struct {
	sessionRepo models.SessionRepo
}

func NewAuthService(sessionRepo models.SessionRepo) *AuthService {
	return &AuthService{
		sessionRepo: sessionRepo,
	}
}

func (as *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("invalid password format: %v", err)
	}
	response, err := as.sessionRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	if response == nil || response.AccessToken == "" {
		return nil, fmt.Errorf("authentication failed: invalid token response")
	}

	return response, nil
}

func (as *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := as.sessionRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	if response == nil || response.AccessToken == "" {
		return nil, fmt.Errorf("token refresh failed: invalid token response")
	}
	return response, nil
}
