package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminRole   = "admin"
	tokenIssuer = "league-system"
)

// AdminClaims are the claims of an admin session token.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Login(ctx context.Context, code string) (*LoginResult, error)
	ParseToken(token string) (*AdminClaims, error)
}

type authService struct {
	codeHash []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService checks admin codes against codeHash, a bcrypt hash, and
// signs HS256 tokens with secret.
func NewAuthService(codeHash string, secret []byte, ttl time.Duration) AuthService {
	return &authService{
		codeHash: []byte(codeHash),
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, code string) (*LoginResult, error) {
	if code == "" {
		return nil, ErrAuthInvalidCode
	}
	if err := bcrypt.CompareHashAndPassword(s.codeHash, []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCode
		}
		return nil, fmt.Errorf("failed to compare admin code hash: %w", err)
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := AdminClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   AdminRole,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expires}, nil
}

func (s *authService) ParseToken(token string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != AdminRole || claims.Issuer != tokenIssuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
