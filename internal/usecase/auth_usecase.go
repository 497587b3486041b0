package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/creditbook/internal/domain"
)

// Credential is a configured operator login.
type Credential struct {
	Username     string
	PasswordHash string
	Role         domain.Role
}

// AuthUseCase authenticates operators against configured credentials.
type AuthUseCase struct {
	credentials map[string]Credential
	issuer      TokenIssuer
	logger      zerolog.Logger
}

// NewAuthUseCase creates a new AuthUseCase. Credentials with an empty
// username or hash are ignored.
func NewAuthUseCase(issuer TokenIssuer, logger zerolog.Logger, credentials ...Credential) *AuthUseCase {
	byName := make(map[string]Credential, len(credentials))
	for _, c := range credentials {
		if c.Username == "" || c.PasswordHash == "" {
			continue
		}
		byName[c.Username] = c
	}

	return &AuthUseCase{
		credentials: byName,
		issuer:      issuer,
		logger:      logger.With().Str("component", "auth").Logger(),
	}
}

// LoginResult is an issued operator token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Operator  *domain.Operator
}

// Login verifies the credentials and issues a token.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	cred, ok := uc.credentials[username]
	if !ok || username == "" || password == "" {
		uc.logger.Warn().Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	if err := verifyPassword(cred.PasswordHash, password); err != nil {
		uc.logger.Warn().Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	op := &domain.Operator{ID: cred.Username, Username: cred.Username, Role: cred.Role}

	token, expiresAt, err := uc.issuer.Issue(op)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("operator_id", op.ID).Str("role", string(op.Role)).Msg("operator logged in")

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Operator: op}, nil
}

// HashPassword hashes a password with bcrypt for use in configuration.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
