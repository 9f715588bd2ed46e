package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies HS256-signed session tokens. There is no
// server-side revocation: a signed token stays valid until its natural
// expiry even after logout.
type TokenService struct {
	key []byte
	ttl time.Duration
}

func NewTokenService(key []byte, ttl time.Duration) *TokenService {
	return &TokenService{key: key, ttl: ttl}
}

// Issue signs a token binding username for the configured TTL.
func (s *TokenService) Issue(username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.key)
	return signed, exp, err
}

// Verify checks signature and expiry and returns the embedded username.
func (s *TokenService) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrNoToken
	}
	var c claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid || c.Username == "" {
		return "", ErrInvalidToken
	}
	return c.Username, nil
}
