package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by the access tokens the identity service issues.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens. Issuing tokens is not our job.
type TokenVerifier interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type tokenVerifier struct {
	jwtSecret []byte
}

func NewTokenVerifier(jwtSecret string) TokenVerifier {
	return &tokenVerifier{jwtSecret: []byte(jwtSecret)}
}

func (v *tokenVerifier) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return v.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	// older tokens carry the id in sub only
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}

	return claims, nil
}
