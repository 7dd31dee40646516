package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/security"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/store"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/util"
)

// Service is the auth backend: sign-up, sign-in, identity lookup, metadata
// updates. Profile and dealer rows are created by the signup trigger, not here.
type Service struct {
	logger  *zap.Logger
	repo    *Repo
	jwtm    *security.JWTManager
	refresh *store.RefreshStore

	// When set, new accounts get no session until the email is confirmed.
	requireEmailConfirm bool
}

func NewService(logger *zap.Logger, repo *Repo, jwtm *security.JWTManager, refresh *store.RefreshStore, requireEmailConfirm bool) *Service {
	return &Service{
		logger:              logger,
		repo:                repo,
		jwtm:                jwtm,
		refresh:             refresh,
		requireEmailConfirm: requireEmailConfirm,
	}
}

// SignUpResult.Tokens is nil when the account still needs email confirmation.
type SignUpResult struct {
	User   *User
	Tokens *security.Tokens
}

func (s *Service) SignUp(ctx context.Context, email, password string, meta Metadata) (SignUpResult, error) {
	if err := util.ValidatePassword(password); err != nil {
		return SignUpResult{}, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return SignUpResult{}, err
	}

	u, err := s.repo.Create(ctx, email, hash, !s.requireEmailConfirm, meta)
	if err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return SignUpResult{}, domain.ErrEmailAlreadyRegistered
		}
		return SignUpResult{}, fmt.Errorf("create auth user: %w", err)
	}

	if s.requireEmailConfirm {
		return SignUpResult{User: u}, nil
	}

	tokens, err := s.issue(ctx, u)
	if err != nil {
		return SignUpResult{}, err
	}
	return SignUpResult{User: u, Tokens: &tokens}, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*User, security.Tokens, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, security.Tokens{}, domain.ErrUnauthenticated
		}
		return nil, security.Tokens{}, err
	}
	if !util.ComparePassword(u.PasswordHash, password) {
		return nil, security.Tokens{}, domain.ErrUnauthenticated
	}

	tokens, err := s.issue(ctx, u)
	if err != nil {
		return nil, security.Tokens{}, err
	}
	return u, tokens, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUserMetadata is best-effort from callers' perspective; they log and
// continue when it fails.
func (s *Service) UpdateUserMetadata(ctx context.Context, id uuid.UUID, meta Metadata) error {
	return s.repo.UpdateMetadata(ctx, id, meta)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (security.Tokens, error) {
	claims, err := s.jwtm.ParseRefresh(refreshToken)
	if err != nil {
		return security.Tokens{}, domain.ErrUnauthenticated
	}
	if err := s.refresh.Validate(ctx, claims.UserID, claims.JTI); err != nil {
		return security.Tokens{}, domain.ErrUnauthenticated
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return security.Tokens{}, domain.ErrUnauthenticated
	}
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return security.Tokens{}, domain.ErrUnauthenticated
	}
	return s.issue(ctx, u)
}

func (s *Service) SignOut(ctx context.Context, userID uuid.UUID) error {
	return s.refresh.Revoke(ctx, userID.String())
}

func (s *Service) issue(ctx context.Context, u *User) (security.Tokens, error) {
	userType := ""
	if u.UserType != nil {
		userType = *u.UserType
	}
	tokens, refreshClaims, err := s.jwtm.Issue(userType, u.ID, u.Email)
	if err != nil {
		return security.Tokens{}, fmt.Errorf("token issue failed: %w", err)
	}
	if err := s.refresh.Put(ctx, refreshClaims.UserID, refreshClaims.JTI); err != nil {
		s.logger.Warn("store refresh jti failed", zap.Error(err))
	}
	return tokens, nil
}
