package user

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are carried in every issued token. Subject is the user id and ID is
// the token id recorded on the user.
type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

func (c *Claims) TokenID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

func (cfg TokenConfig) sign(u *User, jti uuid.UUID, now time.Time) (string, error) {
	claims := &Claims{
		Admin: u.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   u.ID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

func (cfg TokenConfig) parse(raw string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims, nil
}
