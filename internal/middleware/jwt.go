package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthenticator accepts HMAC-signed session tokens minted by the sign-in service.
type JWTAuthenticator struct {
	secret     []byte
	emailClaim string
}

func NewJWTAuthenticator(secret, emailClaim string) *JWTAuthenticator {
	if emailClaim == "" {
		emailClaim = "email"
	}
	return &JWTAuthenticator{secret: []byte(secret), emailClaim: emailClaim}
}

func (a *JWTAuthenticator) Authenticate(_ context.Context, cred Credential) (Identity, error) {
	if cred.Token == "" {
		return Identity{}, ErrNoCredential
	}

	token, err := jwt.Parse(cred.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid token claims")
	}

	email, _ := claims[a.emailClaim].(string)
	sub, _ := claims.GetSubject()
	return Identity{UID: sub, Email: email}, nil
}
