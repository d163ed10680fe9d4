package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mpetrov/aviabooking/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified actor identity extracted from a bearer token.
type Claims struct {
	UserID int64
	Role   domain.UserRole
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs an HS256 access token with sub, role, iat and exp claims.
func (m *TokenManager) Issue(userID int64, role domain.UserRole) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses and validates a token and returns the actor claims.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: userID, Role: domain.UserRole(role)}, nil
}
