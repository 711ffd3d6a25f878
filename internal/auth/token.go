package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finance-tracker/internal/domain"
)

// Claims is the canonical shape of every token this service mints.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Mint signs a token for user and reports when it expires.
func (s *TokenService) Mint(user *domain.User) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, errors.New("mint token: user id is required")
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the raw claims so that
// identity resolution can read tokens minted by older claim layouts.
func (s *TokenService) Verify(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, &domain.Error{
			Kind:    domain.KindAuthentication,
			Reason:  domain.ErrUnauthenticated.Reason,
			Message: domain.ErrUnauthenticated.Message,
			Err:     err,
		}
	}
	return claims, nil
}

// ResolveIdentity extracts the user id from verified claims. The fields are
// checked in order userId, id, sub, user.id and the first non-empty one wins.
func ResolveIdentity(claims jwt.MapClaims) (string, error) {
	for _, key := range []string{"userId", "id", "sub"} {
		if id := claimString(claims[key]); id != "" {
			return id, nil
		}
	}
	if nested, ok := claims["user"].(map[string]any); ok {
		if id := claimString(nested["id"]); id != "" {
			return id, nil
		}
	}
	return "", domain.ErrUnauthenticated
}

func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// numeric ids from older clients
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
	}
	return ""
}
