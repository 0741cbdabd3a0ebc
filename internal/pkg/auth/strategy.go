package auth

import (
	"time"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// Identity is the authenticated principal carried by a token.
type Identity struct {
	Subject string
	Role    model.Role
}

type Strategy interface {
	IssueToken(identity Identity) (string, error)
	ParseToken(token string) (Identity, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
}
