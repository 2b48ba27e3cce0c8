package authenticator

import (
	"context"
)

// Config holds OAuth provider configuration
type Config struct {
	Domain       string // issuer domain for generic OpenID providers
	TenantID     string // directory tenant for Azure AD
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Token represents an authentication token
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       int64
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

// Subject returns the stable user identifier from the claims
func (c Claims) Subject() string {
	if sub, ok := c["sub"].(string); ok {
		return sub
	}
	return ""
}

// Email returns the user's email address, falling back to the UPN claim
// Azure AD issues for directory accounts without a mail attribute.
func (c Claims) Email() string {
	if email, ok := c["email"].(string); ok && email != "" {
		return email
	}
	if upn, ok := c["preferred_username"].(string); ok && upn != "" {
		return upn
	}
	return ""
}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
}
