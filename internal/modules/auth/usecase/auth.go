package usecase

import (
	"context"

	"preview/internal/modules/auth/domain"
	"preview/internal/modules/auth/dto"
	authin "preview/internal/modules/auth/port/in"
	authout "preview/internal/modules/auth/port/out"
	"preview/internal/modules/auth/service"
	"preview/internal/platform/httpx"
)

type Interactor struct {
	svc *service.AuthService
	api authout.AuthAPI
}

func NewInteractor(svc *service.AuthService, api authout.AuthAPI) authin.Usecase {
	return &Interactor{svc: svc, api: api}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.IdentityOutput, error) {
	creds, err := i.api.Login(ctx, input.Email, input.Password)
	if err != nil {
		return dto.IdentityOutput{}, err
	}
	claims, err := i.svc.Adopt(ctx, creds)
	if err != nil {
		return dto.IdentityOutput{}, err
	}
	return toIdentity(claims), nil
}

// Signup registers the account and then logs in with the same credentials,
// matching the service's signup-then-login flow.
func (i *Interactor) Signup(ctx context.Context, input dto.SignupInput) (dto.IdentityOutput, error) {
	if err := i.api.Signup(ctx, input.Email, input.Name, input.Password); err != nil {
		return dto.IdentityOutput{}, err
	}
	return i.Login(ctx, dto.LoginInput{Email: input.Email, Password: input.Password})
}

// Logout notifies the server on a best-effort basis and always clears the
// local pair.
func (i *Interactor) Logout(ctx context.Context) error {
	_ = i.api.Logout(ctx)
	return i.svc.Drop(ctx)
}

func (i *Interactor) Whoami(ctx context.Context) (dto.IdentityOutput, error) {
	claims, err := i.svc.Identity(ctx)
	if err != nil {
		return dto.IdentityOutput{}, err
	}
	return toIdentity(claims), nil
}

func (i *Interactor) ImportTokens(ctx context.Context, input dto.ImportInput) (dto.IdentityOutput, error) {
	claims, err := i.svc.Adopt(ctx, httpx.Credentials{AccessToken: input.AccessToken, RefreshToken: input.RefreshToken})
	if err != nil {
		return dto.IdentityOutput{}, err
	}
	return toIdentity(claims), nil
}

func toIdentity(claims domain.Claims) dto.IdentityOutput {
	return dto.IdentityOutput{MemberID: claims.Subject, Role: claims.Role, ExpiresAt: claims.ExpiresAt}
}
