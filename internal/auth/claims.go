package auth

import "github.com/golang-jwt/jwt/v5"

// ProviderClaims pulls the fields we care about out of the OIDC ID token.
type ProviderClaims struct {
	jwt.RegisteredClaims

	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	PreferredUsername string `json:"preferred_username"`
	Azp               string `json:"azp"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// UserInfo is the cleaned-up identity placed in the request context.
type UserInfo struct {
	ID              string // the 'sub' claim, a stable UUID
	Username        string
	Email           string
	AuthorizedParty string
	Roles           []string
}
