package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "doceasy-server"
)

// ErrTokenMissing is returned when an empty token string is presented.
var ErrTokenMissing = errors.New("no token provided")

// ErrTokenInvalid is returned for malformed, forged, or expired tokens.
var ErrTokenInvalid = errors.New("invalid or expired token")

// GenerateToken creates and signs a JWT for the given identity with the
// supplied validity duration.
func GenerateToken(identity Identity, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		UserID: identity.UserID,
		Role:   identity.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// Verifier validates bearer tokens against a process-wide secret.
// It is the identity collaborator injected into the signaling relay.
type Verifier struct {
	secret string
}

// NewVerifier returns a Verifier bound to the given signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify parses and validates tokenString, returning the embedded identity.
// Failures never panic; the caller is expected to convert the error into an
// auth_error event or an HTTP 401 depending on the surface.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, ErrTokenMissing
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(v.secret), nil
	})

	if err != nil {
		return Identity{}, ErrTokenInvalid
	}

	if !token.Valid {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
