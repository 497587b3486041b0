package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
	"github.com/iho/creditbook/internal/usecase/mocks"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)

	issuer := mocks.NewMockTokenIssuer(ctrl)
	expires := shopNow.Add(time.Hour)

	uc := usecase.NewAuthUseCase(issuer, zerolog.Nop(),
		usecase.Credential{Username: "admin", PasswordHash: mustHash(t, "s3cret"), Role: domain.RoleAdmin},
		usecase.Credential{Username: "clerk", PasswordHash: mustHash(t, "counter"), Role: domain.RoleOperator},
		usecase.Credential{Username: "ghost", PasswordHash: ""},
	)

	issuer.EXPECT().
		Issue(&domain.Operator{ID: "clerk", Username: "clerk", Role: domain.RoleOperator}).
		Return("token-123", expires, nil)

	res, err := uc.Login(context.Background(), " clerk ", "counter")
	require.NoError(t, err)
	assert.Equal(t, "token-123", res.Token)
	assert.Equal(t, expires, res.ExpiresAt)
	assert.Equal(t, domain.RoleOperator, res.Operator.Role)

	tests := []struct {
		name, user, pass string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "root", "s3cret"},
		{"credential without hash", "ghost", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Login(context.Background(), tt.user, tt.pass)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestLogin_IssuerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	issuer := mocks.NewMockTokenIssuer(ctrl)
	issuer.EXPECT().Issue(gomock.Any()).Return("", time.Time{}, errors.New("signing failed"))

	uc := usecase.NewAuthUseCase(issuer, zerolog.Nop(),
		usecase.Credential{Username: "admin", PasswordHash: mustHash(t, "pw"), Role: domain.RoleAdmin})

	_, err := uc.Login(context.Background(), "admin", "pw")
	assert.EqualError(t, err, "signing failed")
}

func TestHashPassword(t *testing.T) {
	hash, err := usecase.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")))
}
