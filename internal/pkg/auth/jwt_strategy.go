package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/tableside/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

const defaultIssuer = "tableside"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy issues and verifies HS256 signed JSON Web Tokens.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuer := opts.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// IssueToken signs a token for the identity.
func (s *JWTStrategy) IssueToken(identity Identity) (string, error) {
	if identity.Subject == "" || !identity.Role.Valid() {
		return "", ErrInvalidToken
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// ParseToken validates signature, issuer and expiry and returns the identity.
func (s *JWTStrategy) ParseToken(token string) (Identity, error) {
	parsed := &claims{}
	_, err := jwt.ParseWithClaims(token, parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	role := model.Role(parsed.Role)
	if parsed.Subject == "" || !role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Subject: parsed.Subject, Role: role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
