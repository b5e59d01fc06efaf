package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type TokenManager struct {
	secret   []byte
	lifespan time.Duration
}

func NewTokenManager(secret string, lifespan time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), lifespan: lifespan}
}

func (m *TokenManager) Generate(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(m.lifespan).Unix(),
			IssuedAt:  now.Unix(),
		},
	})
	return token.SignedString(m.secret)
}

func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
