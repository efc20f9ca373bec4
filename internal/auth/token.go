package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

type Claims struct {
	UserID   uint   `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	userKey  []byte
	adminKey []byte
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*TokenService)

// WithAdminSecret signs admin tokens with a key of their own.
func WithAdminSecret(secret string) Option {
	return func(s *TokenService) {
		if strings.TrimSpace(secret) != "" {
			s.adminKey = []byte(secret)
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *TokenService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(secret string, opts ...Option) *TokenService {
	s := &TokenService{
		userKey:  []byte(secret),
		adminKey: []byte(secret),
		ttl:      DefaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(p Principal) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	key := s.userKey
	switch v := p.(type) {
	case UserPrincipal:
		if v.ID == 0 || v.Username == "" {
			return "", errors.New("user principal requires id and username")
		}
		claims.UserID = v.ID
		claims.Username = v.Username
	case AdminPrincipal:
		claims.IsAdmin = true
		key = s.adminKey
	default:
		return "", fmt.Errorf("unsupported principal %T", p)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry, then requires the token to carry the expected role.
func (s *TokenService) Verify(tokenStr string, expected Role) (Principal, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, &AuthError{Reason: ReasonMissing}
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*Claims)
		if ok && c.IsAdmin {
			return s.adminKey, nil
		}
		return s.userKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &AuthError{Reason: ReasonExpired, Err: err}
		}
		return nil, &AuthError{Reason: ReasonInvalid, Err: err}
	}

	var p Principal
	switch {
	case claims.IsAdmin:
		p = AdminPrincipal{}
	case claims.UserID != 0 && claims.Username != "":
		p = UserPrincipal{ID: claims.UserID, Username: claims.Username}
	default:
		return nil, &AuthError{Reason: ReasonInvalid, Err: errors.New("token carries no identity")}
	}

	if p.Role() != expected {
		return nil, &AuthError{Reason: ReasonForbidden}
	}
	return p, nil
}
