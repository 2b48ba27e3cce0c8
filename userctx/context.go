// Package userctx carries the authenticated operator's identity through a
// request. RequireAuth populates it after session validation; lower layers
// read it for audit attribution.
package userctx

import "context"

type contextKey int

const (
	idKey contextKey = iota
	emailKey
)

// SetUserID stores the operator's subject identifier (the OIDC sub claim)
func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey, id)
}

// GetUserID returns the operator's subject identifier, or "" when the
// request is unauthenticated
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(idKey).(string)
	return id
}

// SetUserEmail stores the operator's email address
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// GetUserEmail returns the operator's email address, or "anonymous" when
// the request is unauthenticated
func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(emailKey).(string); ok {
		return email
	}
	return "anonymous"
}
