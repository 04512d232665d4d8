// Package auth implements the single-operator login. The tracker is a
// one-person tool: credentials come from configuration, not from a user
// table.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	pkgjwt "github.com/yohand-byte/sales-margin-tracker/pkg/jwt"
)

// JWTConfig token parameters for issued sessions.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase validates the operator credentials and issues tokens.
type UseCase struct {
	user         string
	passwordHash string // bcrypt; empty disables login
	jwtCfg       JWTConfig
}

// NewUseCase builds the use case.
func NewUseCase(user, passwordHash string, jwtCfg JWTConfig) *UseCase {
	return &UseCase{user: user, passwordHash: passwordHash, jwtCfg: jwtCfg}
}

// Login checks the credentials and returns a signed token.
// Always returns domain.ErrUnauthorized on failure, never the reason.
func (uc *UseCase) Login(user, password string) (string, error) {
	if uc.passwordHash == "" || user != uc.user {
		return "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.passwordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return pkgjwt.Generate(uc.jwtCfg.Secret, user, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
