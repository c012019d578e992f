package utils

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the API reads back out of a session token.
type Claims struct {
	UserID string
	Role   string
}

// BearerToken strips the "Bearer " prefix from an Authorization header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errors.New("invalid authorization format")
	}
	return header[len(prefix):], nil
}

// ParseToken validates an HS256 session token and returns its claims.
func ParseToken(secret, tokenStr string) (Claims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, errors.New("invalid or expired token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)
	return Claims{UserID: userID, Role: role}, nil
}
