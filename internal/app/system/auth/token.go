package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const issuer = "devconnect"

// ErrInvalidToken is returned by Parse for any token that does not verify.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies the HMAC-signed JWTs that identify a user.
type TokenManager struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenManager returns a TokenManager signing with secret. Tokens expire
// after ttl.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive, got %s", ttl)
	}
	return &TokenManager{signingKey: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for userID. The token's jti is a fresh UUID.
func (m *TokenManager) Issue(userID primitive.ObjectID) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.Hex(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns the user it identifies.
func (m *TokenManager) Parse(raw string) (*SessionUser, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return m.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return &SessionUser{ID: id, TokenID: claims.ID}, nil
}
