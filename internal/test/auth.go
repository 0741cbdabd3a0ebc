package test

import (
	"errors"
	"strings"

	"github.com/polkiloo/tableside/internal/domain/model"
	pkgAuth "github.com/polkiloo/tableside/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// IsHash treats values produced by Hash as hashes.
func (h HasherStub) IsHash(value string) bool {
	return strings.HasPrefix(value, "hash:")
}

// StrategyStub encodes identities as "role:subject" strings.
type StrategyStub struct {
	IssueFn func(pkgAuth.Identity) (string, error)
	ParseFn func(string) (pkgAuth.Identity, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(identity pkgAuth.Identity) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(identity)
	}
	return string(identity.Role) + ":" + identity.Subject, nil
}

// ParseToken parses tokens produced by IssueToken.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	role, subject, ok := strings.Cut(token, ":")
	if !ok || !model.Role(role).Valid() {
		return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
	}
	return pkgAuth.Identity{Subject: subject, Role: model.Role(role)}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Identity pkgAuth.Identity
	Err      error
	ParseFn  func(string) (pkgAuth.Identity, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return pkgAuth.Identity{}, s.Err
	}
	return s.Identity, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
