package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"asset-ledger-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ActorClaims is the identity-provider contract: the resolved operator role
// and assigned base arrive as signed claims. The ledger validates and trusts
// them; issuing tokens is the identity provider's job, not ours.
type ActorClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	BaseID *int64 `json:"base_id,omitempty"`
	Active bool   `json:"active"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	ValidateToken(tokenString string) (*domain.Actor, error)
	// GenerateToken exists for tests and local tooling; production tokens
	// come from the identity provider.
	GenerateToken(actor *domain.Actor, ttl time.Duration) (string, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{secret: []byte(secret)}
}

func (m *tokenManager) ValidateToken(tokenString string) (*domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &domain.Actor{
		UserID: claims.UserID,
		Role:   domain.Role(claims.Role),
		BaseID: claims.BaseID,
		Active: claims.Active,
	}, nil
}

func (m *tokenManager) GenerateToken(actor *domain.Actor, ttl time.Duration) (string, error) {
	claims := ActorClaims{
		UserID: actor.UserID,
		Role:   string(actor.Role),
		BaseID: actor.BaseID,
		Active: actor.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(actor.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "asset-ledger",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
