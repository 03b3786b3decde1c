package utils

import (
	"errors"
	"time"

	"medconnect/config"

	"github.com/golang-jwt/jwt"
)

// Claims is what the API needs from a bearer token.
type Claims struct {
	Subject string
	Role    string
}

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "medconnect-dev-secret"
	}
	return []byte(secret)
}

// GenerateToken creates a signed HS256 token for the given subject and role.
// Tokens are minted by the identity service; this helper exists for tooling and tests.
func GenerateToken(subject, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ParseClaims validates the token and extracts the subject and role.
func ParseClaims(tokenString string) (*Claims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := mc["role"].(string)
	if role == "" {
		return nil, errors.New("token does not contain a 'role' claim")
	}

	return &Claims{Subject: sub, Role: role}, nil
}
