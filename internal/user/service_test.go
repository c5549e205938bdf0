package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/user"
	"github.com/MrJamesThe3rd/invoicer/internal/user/store"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

var tokens = user.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "invoicer"}

func TestService_LoginLogout(t *testing.T) {
	svc := user.NewService(store.NewMemory(), tokens)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateParams{Email: " Admin@Example.com ", Password: "correct horse", Admin: true})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", created.Email)
	assert.NotEqual(t, "correct horse", created.PasswordHash)

	_, _, err = svc.Login(ctx, "admin@example.com", "wrong password")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	token, u, err := svc.Login(ctx, "ADMIN@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	authed, claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, created.ID, authed.ID)

	require.NoError(t, svc.Logout(ctx, claims))

	_, _, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestService_Authenticate_Rejects(t *testing.T) {
	repo := store.NewMemory()
	svc := user.NewService(repo, tokens)
	ctx := context.Background()

	_, err := svc.Create(ctx, user.CreateParams{Email: "joe@example.com", Password: "password1"})
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "joe@example.com", "password1")
	require.NoError(t, err)

	t.Run("WrongSecret", func(t *testing.T) {
		other := user.NewService(repo, user.TokenConfig{Secret: []byte("other"), TTL: time.Hour})
		_, _, err := other.Authenticate(ctx, token)
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := user.NewService(repo, user.TokenConfig{Secret: tokens.Secret, TTL: -time.Minute})
		stale, _, err := expired.Login(ctx, "joe@example.com", "password1")
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, stale)
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(tokens.Secret)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    user.CreateParams
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: user.CreateParams{Email: "a@example.com", Password: "password1"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "EmailTaken",
			params: user.CreateParams{Email: "a@example.com", Password: "password1"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(user.ErrEmailTaken)
			},
			wantErr: user.ErrEmailTaken,
		},
		{
			name:    "ShortPassword",
			params:  user.CreateParams{Email: "a@example.com", Password: "short"},
			wantErr: validate.ErrValidation,
		},
		{
			name:    "BadEmail",
			params:  user.CreateParams{Email: "not-an-email", Password: "password1"},
			wantErr: validate.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := user.NewService(repo, tokens).Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Email, got.Email)
		})
	}
}
