package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// TokenClaims is the decoded identity carried by a bearer token.
type TokenClaims struct {
	UserID  string
	IsAdmin bool
}

// GenerateToken signs a self-contained identity token: subject id, admin
// flag, one day expiry.
func GenerateToken(secret, userID string, isAdmin bool) (string, error) {
	claims := jwt.MapClaims{
		"userID":  userID,
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["userID"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	isAdmin, _ := claims["isAdmin"].(bool)

	return &TokenClaims{UserID: userID, IsAdmin: isAdmin}, nil
}
