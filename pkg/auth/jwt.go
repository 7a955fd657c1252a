// Package auth covers token minting and password hashing for the API's
// JWT scheme.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rishavanand/bazario/config"
)

// TokenTTL is how long an access token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the typed token payload. Subject holds the user's ObjectID
// hex. The role is looked up per request rather than embedded, so a
// promotion or demotion applies immediately instead of at next login.
type Claims struct {
	jwt.RegisteredClaims
}

func signingKey() []byte { return []byte(config.JWTSecret()) }

// GenerateToken mints an HS256 token for the user id.
func GenerateToken(userID string) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}).SignedString(signingKey())
}

// ValidateToken checks signature, algorithm, and expiry, returning the
// claims on success.
func ValidateToken(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{},
		func(*jwt.Token) (interface{}, error) { return signingKey(), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// StripBearer extracts the raw token from an Authorization header. The
// bare form ("Authorization: <token>") is the wire contract; a "Bearer "
// prefix is tolerated for standard clients.
func StripBearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
