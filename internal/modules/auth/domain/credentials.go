package domain

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access-token claims the client reads. The token
// is parsed structurally only; signature verification belongs to the
// server.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the access credential is past its exp claim.
func (c Claims) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ParseClaims extracts claims from an access credential. A credential must
// be three dot-separated segments whose payload is base64url JSON carrying
// at least exp; anything else is malformed and the caller treats the
// stored pair as absent.
func ParseClaims(accessToken string) (Claims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("parse access token: %w", err)
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("access token has no claims")
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, fmt.Errorf("access token has no exp claim")
	}
	sub, _ := mapClaims.GetSubject()
	role, _ := mapClaims["role"].(string)

	return Claims{Subject: sub, Role: role, ExpiresAt: exp.Time}, nil
}
