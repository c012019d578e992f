package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long a session token stays valid.
const TokenTTL = 72 * time.Hour

// IssueToken signs an HS256 session token carrying user_id and role.
func IssueToken(secret, userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
