package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

const (
	adminSubject       = "admin"
	adminTokenDuration = time.Hour
)

// AuthService guards the admin surface: the configured admin key is kept
// only as a bcrypt hash and exchanged for short-lived HS256 tokens.
type AuthService struct {
	jwtSecret    []byte
	adminKeyHash []byte
	now          func() time.Time
}

func NewAuthService(jwtSecret, adminKey string) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin key: %w", err)
	}
	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		adminKeyHash: hash,
		now:          time.Now,
	}, nil
}

func (s *AuthService) CheckAdminKey(key string) error {
	if key == "" {
		return ErrInvalidAdminKey
	}
	if err := bcrypt.CompareHashAndPassword(s.adminKeyHash, []byte(key)); err != nil {
		return ErrInvalidAdminKey
	}
	return nil
}

// IssueAdminToken returns a signed token and its lifetime.
func (s *AuthService) IssueAdminToken() (string, time.Duration, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"iat": now.Unix(),
		"exp": now.Add(adminTokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, adminTokenDuration, nil
}

// ValidateAccessToken returns the token subject.
func (s *AuthService) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	if subject != adminSubject {
		return "", ErrInvalidToken
	}
	return subject, nil
}
