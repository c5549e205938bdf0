package user

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// User is an account. Tokens holds the ids of the tokens that are still valid;
// logging out removes one.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Admin        bool
	Tokens       []uuid.UUID
	CreatedAt    time.Time
}

func (u *User) HasToken(id uuid.UUID) bool {
	return slices.Contains(u.Tokens, id)
}
