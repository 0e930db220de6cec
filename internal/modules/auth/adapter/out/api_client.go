package out

import (
	"context"

	authout "preview/internal/modules/auth/port/out"
	"preview/internal/platform/httpx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

// APIClient speaks the /auth endpoints through the shared httpx boundary.
type APIClient struct {
	http *httpx.Client
}

func NewAPIClient(client *httpx.Client) authout.AuthAPI {
	return &APIClient{http: client}
}

func (c *APIClient) Login(ctx context.Context, email, password string) (httpx.Credentials, error) {
	var out tokenResponse
	if err := c.http.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return httpx.Credentials{}, err
	}
	return httpx.Credentials{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}, nil
}

func (c *APIClient) Signup(ctx context.Context, email, name, password string) error {
	return c.http.Post(ctx, "/auth/signup", signupRequest{Email: email, Name: name, Password: password}, nil)
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.http.Post(ctx, "/auth/logout", nil, nil)
}
