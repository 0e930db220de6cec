package service

import (
	"context"
	"fmt"

	"preview/internal/modules/auth/domain"
	authout "preview/internal/modules/auth/port/out"
	apperrors "preview/internal/platform/errors"
	"preview/internal/platform/httpx"
)

// AuthService owns the credential pair: adoption after login/signup,
// identity reads, and the defensive clear on malformed tokens.
type AuthService struct {
	store authout.CredentialStore
}

func NewAuthService(store authout.CredentialStore) *AuthService {
	return &AuthService{store: store}
}

// Adopt validates and persists a freshly issued pair, returning the
// identity embedded in the access credential. An unparseable pair is
// rejected before anything touches the store.
func (s *AuthService) Adopt(ctx context.Context, creds httpx.Credentials) (domain.Claims, error) {
	if creds.AccessToken == "" || creds.RefreshToken == "" {
		return domain.Claims{}, fmt.Errorf("incomplete credential pair: %w", apperrors.ErrInvalidInput)
	}
	claims, err := domain.ParseClaims(creds.AccessToken)
	if err != nil {
		return domain.Claims{}, err
	}
	if err := s.store.Save(ctx, creds); err != nil {
		return domain.Claims{}, err
	}
	return claims, nil
}

// Identity reads the stored access credential and parses its claims. A
// malformed stored credential is treated as absent and cleared.
func (s *AuthService) Identity(ctx context.Context) (domain.Claims, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return domain.Claims{}, err
	}
	claims, err := domain.ParseClaims(creds.AccessToken)
	if err != nil {
		_ = s.store.Clear(ctx)
		return domain.Claims{}, apperrors.ErrNotLoggedIn
	}
	return claims, nil
}

// Drop removes the stored pair unconditionally.
func (s *AuthService) Drop(ctx context.Context) error {
	return s.store.Clear(ctx)
}
