// Package auth implements the token service and the credential hasher.
package auth

import (
	"time"

	"github.com/dmitrijs2005/foundloss/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Tokens are self-contained HS256 JWTs carrying only sub and exp. There is
// no revocation: a token stays valid until its expiry regardless of later
// account changes.

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the token and returns its subject. The signing
// method is pinned to HS256, so tokens signed with any other algorithm fail
// regardless of their signature. Every failure mode (bad signature, expiry,
// malformed token, missing subject) collapses into common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
