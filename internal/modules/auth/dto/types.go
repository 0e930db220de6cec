package dto

import "time"

type LoginInput struct {
	Email    string
	Password string
}

type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// ImportInput carries a pre-obtained credential pair, e.g. from the web
// app's OAuth callback page.
type ImportInput struct {
	AccessToken  string
	RefreshToken string
}

type IdentityOutput struct {
	MemberID  string
	Role      string
	ExpiresAt time.Time
}
