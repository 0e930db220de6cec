package in

import (
	"context"

	authdto "preview/internal/modules/auth/dto"
	authin "preview/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (authdto.IdentityOutput, error) {
	return h.usecase.Login(ctx, authdto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Signup(ctx context.Context, email, name, password string) (authdto.IdentityOutput, error) {
	return h.usecase.Signup(ctx, authdto.SignupInput{Email: email, Name: name, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Whoami(ctx context.Context) (authdto.IdentityOutput, error) {
	return h.usecase.Whoami(ctx)
}

func (h CLIHandler) ImportTokens(ctx context.Context, access, refresh string) (authdto.IdentityOutput, error) {
	return h.usecase.ImportTokens(ctx, authdto.ImportInput{AccessToken: access, RefreshToken: refresh})
}
