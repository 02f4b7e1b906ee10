package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Error variables
var (
	ErrNoSubject     = errors.New("subject not found in token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrNoAuthHeader  = errors.New("authorization header missing")
	ErrBadAuthHeader = errors.New("invalid authorization header format")
)

// JWT issues and verifies HS256 tokens. Every token is signed with the
// owning user's individual secret key, so verification is two-phase:
// Subject reads the unverified claims to find the user, Verify checks
// the signature against that user's secret.
type JWT struct {
	Exp time.Duration // Expiration for tokens issued by Generate
}

// New creates a new JWT instance with the given token expiration.
func New(expiration time.Duration) *JWT {
	return &JWT{Exp: expiration}
}

// Generate creates a token for username signed with secretKey,
// expiring after the configured duration.
func (j *JWT) Generate(ctx context.Context, username, secretKey string) (string, error) {
	return j.GenerateWithExpiry(ctx, username, secretKey, j.Exp)
}

// GenerateWithExpiry creates a token for username signed with secretKey,
// expiring after exp.
func (j *JWT) GenerateWithExpiry(ctx context.Context, username, secretKey string, exp time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"exp": now.Add(exp).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// Subject extracts the sub claim WITHOUT verifying the signature.
// The caller must follow up with Verify using the subject's secret key.
func (j *JWT) Subject(ctx context.Context, tokenString string) (string, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrNoSubject
	}
	return sub, nil
}

// Verify checks the token signature and expiry against secretKey.
// Only HMAC signing methods are accepted.
func (j *JWT) Verify(ctx context.Context, tokenString, secretKey string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// GetTokenFromRequest extracts the token string from the Authorization header
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoAuthHeader
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", ErrBadAuthHeader
	}

	return parts[1], nil
}
