package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrMissingSubject = errors.New("token missing userId field")
)

// Claims carries the user id. Tokens issued by older clients used "id"
// instead of "userId"; both are accepted on the way in.
type Claims struct {
	UserID   string `json:"userId,omitempty"`
	LegacyID string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns whichever user id claim is present.
func (c *Claims) Subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.LegacyID
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Issue creates a signed token for userID with the configured expiry.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("issue token: empty user id")
	}
	if len(t.secret) == 0 {
		return "", fmt.Errorf("issue token: JWT secret not configured")
	}

	now := t.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if !IsWellFormed(signed) {
		return "", fmt.Errorf("issue token: %w", ErrMalformedToken)
	}
	return signed, nil
}

// Verify parses tokenString and returns the user id it was issued for.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	if !IsWellFormed(tokenString) {
		return "", ErrMalformedToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub := claims.Subject()
	if sub == "" {
		return "", ErrMissingSubject
	}
	return sub, nil
}

// IsWellFormed reports whether s has three non-empty dot-separated segments.
func IsWellFormed(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}
	return true
}
