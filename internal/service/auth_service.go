package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/repository"
	"github.com/eventflow/event-booking/internal/utils"
)

// UserStore is the credential store contract the auth service needs.
type UserStore interface {
	Create(ctx context.Context, fullName, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService turns credentials into signed session tokens and gates
// re-entry for revoked ones.
type AuthService struct {
	users     UserStore
	blacklist repository.TokenBlacklist
	secret    string
	ttlMin    int
	cost      int
}

func NewAuthService(users UserStore, bl repository.TokenBlacklist, secret string, ttlMin, bcryptCost int) *AuthService {
	return &AuthService{users: users, blacklist: bl, secret: secret, ttlMin: ttlMin, cost: bcryptCost}
}

// AuthResult is the outcome of a successful register or login: a signed
// access token plus the user projection returned to the client.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	UserID      uint64
	FullName    string
	Email       string
	Role        string
}

// Register creates a participant account and logs it in immediately.
// The role is forced to participant no matter what the caller sent; the
// only path to an admin account is the privileged admin-only creation
// endpoint.  A taken email yields repository.ErrEmailExists.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	id, err := s.users.Create(ctx, fullName, email, password, model.RoleParticipant, s.cost)
	if err != nil {
		return nil, err
	}
	return s.issue(&model.User{
		ID:       id,
		FullName: fullName,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Role:     model.RoleParticipant,
	})
}

// Login verifies credentials and issues a token.  Unknown email and
// wrong password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Logout revokes the presented token for the remainder of its lifetime.
// The token has already been authenticated by the middleware, so a
// parse failure here means it expired in flight; there is nothing left
// to revoke and the logout still succeeds.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := utils.ParseAccessToken(s.secret, rawToken)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.Exp)
	return s.blacklist.Revoke(ctx, utils.HashToken(rawToken), ttl)
}

func (s *AuthService) issue(u *model.User) (*AuthResult, error) {
	tok, err := utils.NewAccessToken(s.secret, u.ID, u.Email, u.Role, s.ttlMin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken: tok.Token,
		ExpiresAt:   tok.Exp,
		UserID:      u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
	}, nil
}
