package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

type userContextKey string

const contextKey userContextKey = "user_info"

// Authenticator verifies bearer tokens against the OIDC provider.
type Authenticator struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewAuthenticator discovers the provider configuration once at startup.
func NewAuthenticator(ctx context.Context, issuerURL, clientID string) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, err
	}

	config := &oidc.Config{
		ClientID: clientID,
	}

	return &Authenticator{
		provider: provider,
		verifier: provider.Verifier(config),
	}, nil
}

// Middleware rejects requests without a valid Bearer token and injects
// UserInfo into the context for handlers downstream.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid header format", http.StatusUnauthorized)
			return
		}

		// Covers signature, expiry, issuer and audience via cached provider keys.
		idToken, err := a.verifier.Verify(r.Context(), parts[1])
		if err != nil {
			slog.Warn("Token verification failed", "error", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		var claims ProviderClaims
		if err := idToken.Claims(&claims); err != nil {
			http.Error(w, "Failed to parse claims", http.StatusInternalServerError)
			return
		}

		userInfo := UserInfo{
			ID:              claims.Subject,
			Username:        claims.PreferredUsername,
			Email:           claims.Email,
			Roles:           claims.RealmAccess.Roles,
			AuthorizedParty: claims.Azp,
		}

		ctx := context.WithValue(r.Context(), contextKey, userInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserInfo retrieves the authenticated identity from the context.
func GetUserInfo(ctx context.Context) (UserInfo, error) {
	if user, ok := ctx.Value(contextKey).(UserInfo); ok {
		return user, nil
	}
	return UserInfo{}, errors.New("no user found in context")
}

func GetUserID(ctx context.Context) (string, error) {
	user, err := GetUserInfo(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// HasRole checks a realm role, e.g. "admin" for moderation endpoints.
func HasRole(ctx context.Context, role string) bool {
	user, err := GetUserInfo(ctx)
	if err != nil {
		return false
	}
	for _, r := range user.Roles {
		if r == role {
			return true
		}
	}
	return false
}
