package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const adminSessionTTL = 12 * time.Hour

// AuthService is the admin gate: a single static shared secret, compared in
// constant time, that unlocks a session-scoped token. Deliberately not a
// real security boundary — there are no users, roles or server-side
// sessions.
type AuthService interface {
	Login(password string) (string, error)
	VerifyToken(token string) error
}

type authService struct {
	adminPassword []byte
	jwtSecret     []byte
}

func NewAuthService(adminPassword, jwtSecret string) AuthService {
	return &authService{
		adminPassword: []byte(adminPassword),
		jwtSecret:     []byte(jwtSecret),
	}
}

// Login checks the shared secret and issues a signed session token.
func (s *authService) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), s.adminPassword) != 1 {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(adminSessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token issued by Login.
func (s *authService) VerifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return ErrInvalidCredentials
	}
	return nil
}
