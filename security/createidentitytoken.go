package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "maxloyalty"

// Identity is the back-office operator a token is issued to.
type Identity struct {
	ID       int    `json:"nameid"`
	UserName string `json:"unique_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IdentityClaims includes Identity and standard JWT claims
type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

// DecodeSecret turns the configured base64 secret into key bytes.
func DecodeSecret(base64Secret string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	return secret, nil
}

func CreateIdentityToken(identity *Identity, base64Secret string, ttl time.Duration) (string, error) {
	secret, err := DecodeSecret(base64Secret)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := IdentityClaims{
		Identity: *identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   fmt.Sprintf("%d", identity.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseIdentityToken validates signature, issuer and expiry.
func ParseIdentityToken(tokenStr string, secret []byte) (*IdentityClaims, error) {
	var claims IdentityClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return &claims, nil
}
