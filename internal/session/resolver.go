// Package session resolves the acting identity for one request. Workflows
// receive the resolved Context explicitly instead of reading ambient state.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/auth"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/security"
)

// Context carries the authenticated caller plus the bearer token workflows
// forward to the admission endpoints.
type Context struct {
	UserID   uuid.UUID
	Email    string
	UserType domain.UserType
	Token    string
}

type Resolver struct {
	jwtm  *security.JWTManager
	users *auth.Repo
}

func NewResolver(jwtm *security.JWTManager, users *auth.Repo) *Resolver {
	return &Resolver{jwtm: jwtm, users: users}
}

// Resolve validates a bearer token and loads the identity behind it.
// Read-only; no side effects.
func (r *Resolver) Resolve(ctx context.Context, bearerToken string) (Context, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(bearerToken), "Bearer "))
	if token == "" {
		return Context{}, domain.ErrUnauthenticated
	}

	claims, err := r.jwtm.ParseAccess(token)
	if err != nil {
		// An expired or malformed token is an identity whose token store
		// can no longer produce a usable credential.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Context{}, domain.ErrSessionTokenMissing
		}
		return Context{}, domain.ErrUnauthenticated
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Context{}, domain.ErrUnauthenticated
	}

	u, err := r.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return Context{}, domain.ErrUnauthenticated
		}
		return Context{}, err
	}

	userType := domain.UserType(claims.UserType)
	if u.UserType != nil && *u.UserType != "" {
		userType = domain.UserType(*u.UserType)
	}

	return Context{
		UserID:   u.ID,
		Email:    u.Email,
		UserType: userType,
		Token:    token,
	}, nil
}
