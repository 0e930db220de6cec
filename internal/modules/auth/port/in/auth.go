package in

import (
	"context"

	"preview/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.IdentityOutput, error)
	Signup(ctx context.Context, input dto.SignupInput) (dto.IdentityOutput, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (dto.IdentityOutput, error)
	ImportTokens(ctx context.Context, input dto.ImportInput) (dto.IdentityOutput, error)
}
