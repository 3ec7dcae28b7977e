package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/polyphrases/polyphrases/internal/config"
	"golang.org/x/crypto/hkdf"
)

// hkdfInfo binds the derived key to subscriber link tokens
const hkdfInfo = "polyphrases subscriber link token v1"

// ErrInvalidToken is returned when a link token fails verification
var ErrInvalidToken = errors.New("invalid subscriber token")

// TokenService creates and verifies the per-subscriber tokens embedded in
// challenge and unsubscribe links.
type TokenService struct {
	issuer string
	key    []byte
}

// TokenClaims represents the claims in a subscriber link token.
// No time-based claims are set, so the same subscriber always gets the
// same token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// NewTokenService creates a new TokenService, deriving the HMAC key from
// the configured secret.
func NewTokenService(cfg config.TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(cfg.Secret), []byte(cfg.Issuer), []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive token key: %w", err)
	}

	return &TokenService{
		issuer: cfg.Issuer,
		key:    key,
	}, nil
}

// Derive returns the link token for a subscriber
func (s *TokenService) Derive(id int64, email string) (string, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  s.issuer,
			Subject: strconv.FormatInt(id, 10),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a link token and returns the subscriber id and email it
// was issued for.
func (s *TokenService) Verify(tokenString string) (int64, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}

	return id, claims.Email, nil
}
