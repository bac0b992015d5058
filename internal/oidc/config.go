package oidc

import (
	"log/slog"
	"time"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type Configuration struct {
	ClientManager  goidc.ClientManager
	GrantManager   goidc.GrantManager
	ConsentManager goidc.ConsentManager
	Signer         goidc.Signer

	// Issuer is the value of the "iss" claim of ID tokens.
	Issuer string

	// AuthorizationCodeLifetimeSecs defines how long authorization codes can
	// be exchanged for.
	AuthorizationCodeLifetimeSecs int
	// IDTokenLifetimeSecs defines the expiry time of ID tokens.
	IDTokenLifetimeSecs int
	// TokenLifetimeSecs defines the expiry time of access tokens. It is also
	// the "expires_in" value returned to the client.
	TokenLifetimeSecs   int
	ConsentLifetimeSecs int

	SubjectFunc goidc.SubjectFunc
	// IDTokenProcessors run in order over the claims of every ID token.
	IDTokenProcessors []goidc.IDTokenProcessor

	UserFunc          goidc.UserFunc
	RenderLoginFunc   goidc.RenderLoginFunc
	RenderConsentFunc goidc.RenderConsentFunc
	RenderErrorFunc   goidc.RenderErrorFunc

	// ConsentChallengeKey is the HMAC key binding consent submissions to the
	// consent page rendered for the same user and request.
	ConsentChallengeKey []byte

	// Recorder is notified about the outcome of every authorization request.
	Recorder goidc.OutcomeRecorder

	Logger *slog.Logger
	// NowFunc returns the current time. Every expiry is derived from it.
	NowFunc func() time.Time
}
