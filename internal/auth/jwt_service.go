package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenExpiry is the validity window of a session token.
const SessionTokenExpiry = 24 * time.Hour

// Claims represents JWT claims. Only user_id and exp are set on issued tokens.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// SecretProvider supplies the HMAC signing key.
type SecretProvider interface {
	SigningKey() []byte
}

// StaticSecret is a SecretProvider backed by a fixed string.
type StaticSecret string

// SigningKey implements SecretProvider.
func (s StaticSecret) SigningKey() []byte {
	return []byte(s)
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret SecretProvider
	now    func() time.Time
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithClock overrides the time source used for expiry calculation.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService creates a new JWT service signing with the given secret.
func NewJWTService(secret SecretProvider, opts ...Option) *JWTService {
	s := &JWTService{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a session token for userID and returns it with its expiry.
func (s *JWTService) Issue(userID uint) (string, time.Time, error) {
	expiresAt := s.now().Add(SessionTokenExpiry)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret.SigningKey())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates a token string and returns its claims.
func (s *JWTService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.Keyfunc,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Keyfunc returns the signing key after checking the token uses HMAC.
func (s *JWTService) Keyfunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return s.secret.SigningKey(), nil
}
