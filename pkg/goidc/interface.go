package goidc

import (
	"context"
	"net/http"
	"time"
)

// ClientManager gives access to the registered clients.
type ClientManager interface {
	// Client returns [ErrNotFound] when no client is registered under id.
	Client(ctx context.Context, id string) (*Client, error)
}

// GrantManager stores the credentials minted by the authorization endpoint.
// Saving a code or token whose identifier is already in use must fail with
// [ErrAlreadyExists] instead of overwriting the existing record.
type GrantManager interface {
	SaveAuthorizationCode(ctx context.Context, code *AuthorizationCode) error
	// ConsumeAuthorizationCode removes and returns the code. A code can be
	// consumed only once, and an expired code results in [ErrExpired].
	ConsumeAuthorizationCode(ctx context.Context, code string, now time.Time) (*AuthorizationCode, error)
	SaveAccessToken(ctx context.Context, token *AccessToken) error
	AccessToken(ctx context.Context, value string) (*AccessToken, error)
}

// ConsentManager stores the consents given by users to clients.
type ConsentManager interface {
	// Consent returns [ErrNotFound] when the user never consented to the
	// client.
	Consent(ctx context.Context, userID, clientID string) (*UserConsent, error)
	// Upsert creates the consent for the pair of user and client or replaces
	// the scopes and expiry of the existing one. The boolean return is true
	// when the record was created. Implementations must keep a single record
	// per user and client even under concurrent calls.
	Upsert(ctx context.Context, userID, clientID string, scopes []string, expiresAt time.Time) (*UserConsent, bool, error)
}

// Signer serializes ID token claims into a compact signed JWT.
type Signer interface {
	// Sign returns [ErrNoSigningKey] when there is no active key.
	Sign(ctx context.Context, claims IDTokenClaims) (string, error)
	// Algorithm is the JWS algorithm used by Sign. It also determines the hash
	// function used for at_hash.
	Algorithm() string
}

// SubjectFunc maps a user to the "sub" claim of its ID tokens.
type SubjectFunc func(User) string

// IDTokenProcessor transforms the claims of an ID token before it is signed.
type IDTokenProcessor interface {
	ProcessIDToken(ctx context.Context, claims IDTokenClaims, user User) (IDTokenClaims, error)
}

// IDTokenProcessorFunc adapts a function to [IDTokenProcessor].
type IDTokenProcessorFunc func(ctx context.Context, claims IDTokenClaims, user User) (IDTokenClaims, error)

func (f IDTokenProcessorFunc) ProcessIDToken(ctx context.Context, claims IDTokenClaims, user User) (IDTokenClaims, error) {
	return f(ctx, claims, user)
}

// UserFunc returns the user authenticated in the request, if any.
// How users authenticate (cookies, sessions) is up to the application.
type UserFunc func(r *http.Request) (*User, bool)

// RenderLoginFunc is called when the authorization endpoint is reached
// without an authenticated user.
type RenderLoginFunc func(w http.ResponseWriter, r *http.Request, req AuthorizationRequest) error

// RenderConsentFunc is called when the user must approve the scopes requested
// by the client. The page is expected to post the same authorization
// parameters back to the authorization endpoint together with challenge in the
// [ParamConsentChallenge] field, plus "allow=Accept" when the user approves.
// Submissions without a valid challenge are rejected.
type RenderConsentFunc func(w http.ResponseWriter, r *http.Request, client *Client, req AuthorizationRequest, challenge string) error

// RenderErrorFunc renders errors that cannot be redirected to the client.
type RenderErrorFunc func(w http.ResponseWriter, r *http.Request, err error) error

// OutcomeRecorder collects the outcome of authorization requests, for
// instance to export metrics. The outcome is either "issued" or the kind of
// the error that rejected the request.
type OutcomeRecorder interface {
	RecordOutcome(grant GrantType, outcome string)
}
