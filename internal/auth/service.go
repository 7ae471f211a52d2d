// Package auth issues and checks plan share tokens. A token grants access
// to exactly one plan, either read-only or with edit rights.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
)

const DefaultTTL = 30 * 24 * time.Hour

type Role string

const (
	RoleView Role = "view"
	RoleEdit Role = "edit"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleView, RoleEdit:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Allows reports whether r is at least as strong as need.
func (r Role) Allows(need Role) bool {
	return r == RoleEdit || r == need
}

// Grant is what a valid token entitles its bearer to.
type Grant struct {
	PlanID  string    `json:"planId"`
	Role    Role      `json:"role"`
	TokenID string    `json:"tokenId"`
	Expires time.Time `json:"expires"`
}

type shareClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

type ShareResult struct {
	Token string `json:"token"`
	Grant Grant  `json:"grant"`
}

// Issue signs a token for planID. A non-positive ttl uses DefaultTTL.
func (s *Service) Issue(planID string, role Role, ttl time.Duration) (*ShareResult, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.now()
	g := Grant{
		PlanID:  planID,
		Role:    role,
		TokenID: uuid.NewString(),
		Expires: now.Add(ttl).Truncate(time.Second),
	}
	claims := shareClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        g.TokenID,
			Subject:   planID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(g.Expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &ShareResult{Token: signed, Grant: g}, nil
}

func (s *Service) Validate(tokenString string) (Grant, error) {
	var claims shareClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Grant{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Grant{}, ErrInvalidToken
	}
	if _, err := ParseRole(string(claims.Role)); err != nil {
		return Grant{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	g := Grant{PlanID: claims.Subject, Role: claims.Role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		g.Expires = claims.ExpiresAt.Time
	}
	return g, nil
}
