package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

const testSecret = "token-test-secret"

func TestTokenRoundTrip(t *testing.T) {
	identity := Identity{UserID: "u1", Role: "doctor"}

	tokenString, err := GenerateToken(identity, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := NewVerifier(testSecret).Verify(tokenString)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != identity {
		t.Fatalf("expected %+v, got %+v", identity, got)
	}
}

func TestVerifyRejections(t *testing.T) {
	v := NewVerifier(testSecret)

	expired, err := GenerateToken(Identity{UserID: "u1", Role: "patient"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}
	forged, err := GenerateToken(Identity{UserID: "u1", Role: "patient"}, "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate forged: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrTokenMissing},
		{"whitespace", "   ", ErrTokenMissing},
		{"garbage", "not-a-token", ErrTokenInvalid},
		{"truncated", "aaaa.bbbb", ErrTokenInvalid},
		{"expired", expired, ErrTokenInvalid},
		{"wrong secret", forged, ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := v.Verify(tt.token)
			if err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if identity != (Identity{}) {
				t.Fatalf("expected zero identity, got %+v", identity)
			}
		})
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			Issuer:    TokenIssuer,
		},
		UserID: "u1",
		Role:   "admin",
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("build unsigned token: %v", err)
	}

	if _, err := NewVerifier(testSecret).Verify(unsigned); err != ErrTokenInvalid {
		t.Fatalf("alg none must be rejected, got %v", err)
	}
}

func TestClaimsCarryIssuer(t *testing.T) {
	tokenString, err := GenerateToken(Identity{UserID: "u1", Role: "patient"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if claims.Issuer != TokenIssuer {
		t.Fatalf("expected issuer %q, got %q", TokenIssuer, claims.Issuer)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Fatal("expiry must be after issuance")
	}
}
