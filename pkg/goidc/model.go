package goidc

import (
	"slices"
	"time"
)

// User is the end user authenticated by the surrounding application.
type User struct {
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username,omitempty" bson:"username,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	// LastLoginAt is when the user last authenticated. It may be zero for
	// users who never logged in, in which case JoinedAt is used instead.
	LastLoginAt time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	JoinedAt    time.Time `json:"joined_at" bson:"joined_at"`
}

// AuthTime returns the time of the user's last authentication.
func (u User) AuthTime() time.Time {
	if u.LastLoginAt.IsZero() {
		return u.JoinedAt
	}
	return u.LastLoginAt
}

// AuthorizationRequest is the normalized view of the parameters sent to the
// authorization endpoint.
type AuthorizationRequest struct {
	ClientID     string       `json:"client_id"`
	RedirectURI  string       `json:"redirect_uri"`
	ResponseType ResponseType `json:"response_type"`
	// Scopes is treated as a set, the order is irrelevant.
	Scopes []string `json:"scopes"`
	State  string   `json:"state,omitempty"`
	Nonce  string   `json:"nonce,omitempty"`
}

// AuthorizationCode is issued during the authorization code flow and later
// exchanged, exactly once, at the token endpoint.
type AuthorizationCode struct {
	Code             string    `json:"code" bson:"_id"`
	UserID           string    `json:"user_id" bson:"user_id"`
	ClientID         string    `json:"client_id" bson:"client_id"`
	Scopes           []string  `json:"scopes" bson:"scopes"`
	Nonce            string    `json:"nonce,omitempty" bson:"nonce,omitempty"`
	IsAuthentication bool      `json:"is_authentication" bson:"is_authentication"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt        time.Time `json:"expires_at" bson:"expires_at"`
}

func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// AccessToken is the record kept for tokens issued by the implicit flow.
type AccessToken struct {
	ID           string   `json:"id" bson:"_id"`
	Value        string   `json:"access_token" bson:"access_token"`
	RefreshToken string   `json:"refresh_token" bson:"refresh_token"`
	UserID       string   `json:"user_id" bson:"user_id"`
	ClientID     string   `json:"client_id" bson:"client_id"`
	Scopes       []string `json:"scopes" bson:"scopes"`
	// IDTokenClaims is empty for plain OAuth requests.
	IDTokenClaims   IDTokenClaims `json:"id_token_claims,omitempty" bson:"id_token_claims,omitempty"`
	AccessTokenHash string        `json:"at_hash" bson:"at_hash"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	ExpiresAt       time.Time     `json:"expires_at" bson:"expires_at"`
}

func (t *AccessToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IDTokenClaims is the payload of an ID token before it is signed.
type IDTokenClaims map[string]any

// Clone returns a shallow copy of the claims.
func (c IDTokenClaims) Clone() IDTokenClaims {
	if c == nil {
		return nil
	}

	clone := make(IDTokenClaims, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}

// UserConsent records the scopes a user granted to a client.
// There is at most one record per user and client.
type UserConsent struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	ClientID  string    `json:"client_id" bson:"client_id"`
	Scopes    []string  `json:"scopes" bson:"scopes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired reports whether the consent is no longer valid at now. A consent
// expiring exactly at now is already expired.
func (c *UserConsent) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Covers reports whether every requested scope was granted.
func (c *UserConsent) Covers(scopes []string) bool {
	for _, s := range scopes {
		if !slices.Contains(c.Scopes, s) {
			return false
		}
	}
	return true
}

// GrantOutcome is the credential minted for an authorization request.
// Exactly one of Code and Token is set.
type GrantOutcome struct {
	Code  *AuthorizationCode
	Token *TokenIssuance
}

// TokenIssuance is the result of the implicit flow.
type TokenIssuance struct {
	// AccessToken is empty when the response type does not return it to the
	// client, even though a token record was created.
	AccessToken     string
	RefreshToken    string
	IDToken         string
	AccessTokenHash string
	TokenType       TokenType
	ExpiresInSecs   int
	ExpiresAt       time.Time
}
