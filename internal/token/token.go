package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Casglez3/login-register-backend/internal/models"
)

// TTL is the fixed token lifetime.
const TTL = time.Hour

var (
	// ErrInvalid covers malformed tokens, bad signatures, tokens signed
	// with a different key and unexpected signing methods.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned for a well-formed token past its expiry.
	ErrExpired = errors.New("token expired")
)

// Manager issues and verifies signed bearer tokens. It holds the
// process-wide signing secret and is safe for concurrent use.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a Manager signing with secret and the fixed [TTL].
func NewManager(secret []byte) *Manager {
	return &Manager{secret: secret, ttl: TTL}
}

// Issue signs a token carrying the account id and username, expiring one
// TTL from now.
func (m *Manager) Issue(id, userName string) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		ID:       id,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates tokenString, returning its claims.
func (m *Manager) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is what we expect
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !t.Valid {
		return nil, ErrInvalid
	}

	return claims, nil
}
