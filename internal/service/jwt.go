package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

func InitJWT(secret string) {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a token whose subject is the player name.
func GenerateJWT(player string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   player,
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates the token and returns the player name.
func ParseJWT(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("player not found in token")
	}
	return claims.Subject, nil
}
