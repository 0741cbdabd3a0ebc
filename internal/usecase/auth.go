package usecase

import (
	"context"
	"crypto/subtle"
	"strings"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
	pkgAuth "github.com/polkiloo/tableside/internal/pkg/auth"
)

// AdminCredentials are the configured staff login and password.
type AdminCredentials struct {
	Login    string
	Password string
}

// AuthUseCase handles staff login and role tokens.
type AuthUseCase struct {
	login  string
	hash   string
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase. The password is kept only as a hash;
// a configured password that already is a hash is used unchanged.
func NewAuthUseCase(creds AdminCredentials, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) (*AuthUseCase, error) {
	login := strings.TrimSpace(creds.Login)
	if login == "" || creds.Password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}
	hash := creds.Password
	if !hasher.IsHash(hash) {
		var err error
		if hash, err = hasher.Hash(creds.Password); err != nil {
			return nil, err
		}
	}
	return &AuthUseCase{login: login, hash: hash, hasher: hasher, tokens: strategy}, nil
}

// Login validates staff credentials and returns an admin token.
func (u *AuthUseCase) Login(_ context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(login), []byte(u.login)) != 1 {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.hash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(pkgAuth.Identity{Subject: login, Role: model.RoleAdmin})
}

// ParseToken extracts the caller identity from token.
func (u *AuthUseCase) ParseToken(token string) (pkgAuth.Identity, error) {
	if token == "" {
		return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
