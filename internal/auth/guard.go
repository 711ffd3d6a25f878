package auth

import (
	"context"
	"errors"
	"strings"

	"finance-tracker/internal/domain"
)

// Guard turns inbound credentials into user ids and enforces ownership.
type Guard struct {
	tokens *TokenService
}

func NewGuard(tokens *TokenService) *Guard {
	return &Guard{tokens: tokens}
}

// ExtractCredential normalizes an Authorization header value. The "Bearer"
// scheme is optional and matched case-insensitively.
func ExtractCredential(header string) (string, error) {
	token := strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "bearer") {
		token = strings.TrimSpace(rest)
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

// Authenticate resolves the user id carried by an Authorization header value.
func (g *Guard) Authenticate(header string) (string, error) {
	token, err := ExtractCredential(header)
	if err != nil {
		return "", err
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	return ResolveIdentity(claims)
}

// Authorize permits a mutation only when the requester owns the resource.
func Authorize(requesterID, ownerID string) error {
	if requesterID == "" || requesterID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}

// RequireOwner loads a resource once and checks ownership. A missing resource
// is reported as forbidden too so callers cannot probe for foreign ids.
func RequireOwner[T any](ctx context.Context, requesterID string, lookup func(context.Context) (T, string, error)) (T, error) {
	res, ownerID, err := lookup(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, domain.ErrNotFound) {
			return zero, domain.ErrForbidden
		}
		return zero, err
	}
	if err := Authorize(requesterID, ownerID); err != nil {
		var zero T
		return zero, err
	}
	return res, nil
}
