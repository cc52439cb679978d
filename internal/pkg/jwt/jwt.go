package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Service signs and verifies the identity tokens issued to storefront users.
type Service struct {
	secret []byte
	ttl    time.Duration
}

type Claims struct {
	Email string `json:"email"`
	jwtlib.RegisteredClaims
}

// Identity is what a verified bearer token vouches for.
type Identity struct {
	Email string
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Service) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: strings.ToLower(strings.TrimSpace(email)),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strings.ToLower(strings.TrimSpace(email)),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verify turns a bearer token into a verified identity.
func (s *Service) Verify(tokenStr string) (*Identity, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	return &Identity{Email: claims.Email}, nil
}
