package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	// CreateUser returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	AddToken(ctx context.Context, userID, tokenID uuid.UUID) error
	RemoveToken(ctx context.Context, userID, tokenID uuid.UUID) error
}

type Service struct {
	repo   Repository
	tokens TokenConfig
	now    func() time.Time
}

func NewService(repo Repository, tokens TokenConfig) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

type CreateParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Admin    bool   `json:"admin"`
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        normaliseEmail(params.Email),
		PasswordHash: hash,
		Admin:        params.Admin,
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

// Login checks the password and issues a signed token whose id is recorded on the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if err := comparePassword(u.PasswordHash, password); err != nil {
		return "", nil, err
	}

	jti := uuid.New()

	token, err := s.tokens.sign(u, jti, s.now())
	if err != nil {
		return "", nil, err
	}

	if err := s.repo.AddToken(ctx, u.ID, jti); err != nil {
		return "", nil, fmt.Errorf("recording token: %w", err)
	}

	u.Tokens = append(u.Tokens, jti)

	return token, u, nil
}

// Authenticate verifies the token signature and expiry, then checks it has not been revoked.
func (s *Service) Authenticate(ctx context.Context, raw string) (*User, *Claims, error) {
	claims, err := s.tokens.parse(raw, s.now())
	if err != nil {
		return nil, nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	tokenID, err := claims.TokenID()
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}

		return nil, nil, err
	}

	if !u.HasToken(tokenID) {
		return nil, nil, ErrInvalidToken
	}

	return u, claims, nil
}

func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	userID, err := claims.UserID()
	if err != nil {
		return ErrInvalidToken
	}

	tokenID, err := claims.TokenID()
	if err != nil {
		return ErrInvalidToken
	}

	return s.repo.RemoveToken(ctx, userID, tokenID)
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
