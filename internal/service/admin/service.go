// Package admin gates the product management panel. The credentials are
// static configuration compared in plain text; this keeps casual visitors out
// of the panel and is not a security boundary.
package admin

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tecnostore/internal/domain"
)

const (
	issuer    = "tecnostore"
	roleAdmin = "admin"
)

// Claims is the signed panel token payload.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type Config struct {
	Username string
	Password string
	Secret   string
	TTL      time.Duration
}

type Service struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Service{cfg: cfg, now: time.Now}
}

// Login checks the static credentials and returns a panel token with its
// expiry.
func (s *Service) Login(username, password string) (string, time.Time, error) {
	if username != s.cfg.Username || password != s.cfg.Password {
		return "", time.Time{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	now := s.now()
	expires := now.Add(s.cfg.TTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: roleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Verify accepts only unexpired HS256 tokens issued by Login.
func (s *Service) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Role != roleAdmin {
		return Claims{}, fmt.Errorf("%w: role %q", domain.ErrUnauthorized, claims.Role)
	}
	return claims, nil
}
