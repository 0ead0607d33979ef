// Package auth implements the credential and token primitives of the
// authentication subsystem: HS256-signed access/refresh tokens, bcrypt
// password hashing, and email/password normalization rules.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/devhubhq/devhub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim. A token is only accepted where
// its type matches the verification call site.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the JWT payload for both token kinds. Email is only set on
// access tokens.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived access token for userID/email.
func IssueAccessToken(userID, email string, secret []byte, validity time.Duration) (string, error) {
	return issueToken(&Claims{
		UserID:    userID,
		Email:     email,
		TokenType: TokenTypeAccess,
	}, secret, validity)
}

// IssueRefreshToken signs a long-lived refresh token for userID.
func IssueRefreshToken(userID string, secret []byte, validity time.Duration) (string, error) {
	return issueToken(&Claims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
	}, secret, validity)
}

func issueToken(claims *Claims, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates the signature and expiry of tokenString and checks
// that its "type" claim matches expectedType. It returns
// common.ErrTokenExpired, common.ErrTokenMalformed or
// common.ErrTokenWrongType; the claims are never re-checked against the
// user record here, callers must re-fetch the user if freshness matters.
func VerifyToken(tokenString string, secret []byte, expectedType string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenMalformed
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrTokenMalformed
	}

	if claims.TokenType != expectedType {
		return nil, common.ErrTokenWrongType
	}

	return claims, nil
}
