package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongIssuer  = errors.New("invalid token issuer")
)

// Claims: стандартные поля плюс флаг администратора.
// Администратор здесь означает доверенный сервис-коллаборатор (проекты, identity),
// subject обычного токена совпадает с id кандидата.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin"`
}

// CandidateID возвращает subject как id кандидата.
func (c *Claims) CandidateID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Generator выпускает сервисные токены для --issue-service-token. Токены
// кандидатов выдаёт identity-сервис, здесь нужен только тот же формат claims.
type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewGenerator(secret, issuer string, ttl time.Duration) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (g *Generator) Generate(ctx context.Context, subject uuid.UUID, isAdmin bool) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    g.issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		IsAdmin: isAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", subject, err)
	}
	return signed, nil
}

// Verifier проверяет подпись HS256, срок действия и issuer.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier: пустой issuer отключает его проверку.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

func (v *Verifier) Parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrWrongIssuer
	}
	return claims, nil
}
