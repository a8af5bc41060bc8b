package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// BackendClaims are the claims the backend puts in the bearer token it hands out.
// The front never holds the signing secret, so these are read, not verified.
type BackendClaims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenInspector decides whether a stored bearer token is still worth sending.
type TokenInspector interface {
	Inspect(token string) (*BackendClaims, error)
	CheckFresh(token string, now time.Time) error
}

type tokenInspector struct {
	parser *jwt.Parser
	leeway time.Duration
}

// NewTokenInspector returns an inspector that treats tokens expiring within leeway as expired.
func NewTokenInspector(leeway time.Duration) TokenInspector {
	return &tokenInspector{
		parser: jwt.NewParser(),
		leeway: leeway,
	}
}

func (i *tokenInspector) Inspect(token string) (*BackendClaims, error) {
	claims := &BackendClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CheckFresh returns ErrExpiredToken for a JWT past its exp.
// Opaque (non-JWT) tokens and JWTs without exp are accepted as-is; the backend stays the authority.
func (i *tokenInspector) CheckFresh(token string, now time.Time) error {
	if token == "" {
		return nil
	}
	if strings.Count(token, ".") != 2 {
		return nil
	}
	claims, err := i.Inspect(token)
	if err != nil {
		return err
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	if !now.Add(i.leeway).Before(claims.ExpiresAt.Time) {
		return ErrExpiredToken
	}
	return nil
}
