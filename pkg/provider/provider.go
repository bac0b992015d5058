package provider

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"

	"github.com/go-jose/go-jose/v4"
	"github.com/kaoden/goidc-authorize/internal/authorize"
	"github.com/kaoden/goidc-authorize/internal/joseutil"
	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/internal/storage"
	"github.com/kaoden/goidc-authorize/internal/timeutil"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// Flow is the classification of an authorization request returned by
// [Provider.Classify].
type Flow = authorize.Flow

// AuthorizationError is the error returned when an authorization request is
// rejected. Use [errors.As] to inspect it.
type AuthorizationError = authorize.Error

type ErrorKind = authorize.ErrorKind

const (
	KindInvalidClient           = authorize.KindInvalidClient
	KindMissingRedirectURI      = authorize.KindMissingRedirectURI
	KindInvalidRedirectURI      = authorize.KindInvalidRedirectURI
	KindUnsupportedResponseType = authorize.KindUnsupportedResponseType
	KindInvalidRequest          = authorize.KindInvalidRequest
	KindAccessDenied            = authorize.KindAccessDenied
	KindServerError             = authorize.KindServerError
)

type Provider struct {
	config        *oidc.Configuration
	privateJWKS   jose.JSONWebKeySet
	idTokenSigAlg jose.SignatureAlgorithm
}

// New creates the authorization endpoint of an OpenID provider.
// By default, clients, credentials and consents are stored in memory and ID
// tokens are signed with the first signing key in the JWKS matching the ID
// token signature algorithm.
//
// New fails when no signer is available, even if the registered clients only
// use the code flow, because clients can be registered at any time and any
// authentication request may need an ID token. Keys that disappear after
// startup, e.g. with a custom [goidc.Signer], make the implicit flow fail with
// server_error instead.
func New(
	issuer string,
	privateJWKS jose.JSONWebKeySet,
	opts ...ProviderOption,
) (
	*Provider,
	error,
) {
	p := &Provider{
		config: &oidc.Configuration{
			Issuer: issuer,
		},
		privateJWKS: privateJWKS,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	p.setDefaults()

	if err := p.validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Handler returns an HTTP handler serving the authorization endpoint at
// [goidc.EndpointAuthorize].
//
//	server := http.NewServeMux()
//	server.Handle("/", op.Handler())
func (p *Provider) Handler() http.Handler {
	server := http.NewServeMux()
	server.Handle(goidc.EndpointAuthorize, newCacheControlMiddleware(authorize.Handler(p.config)))
	return server
}

func (p *Provider) Run(
	address string,
	middlewares ...MiddlewareFunc,
) error {
	handler := p.Handler()
	for _, middleware := range middlewares {
		handler = middleware(handler)
	}
	return http.ListenAndServe(address, handler)
}

// Classify maps the response type to a grant and checks whether the request
// is an OpenID authentication request.
func (p *Provider) Classify(responseType goidc.ResponseType, scopes []string) Flow {
	return authorize.Classify(responseType, scopes)
}

// Validate checks an authorization request against the registered client and
// returns the client. Rejections are reported as [AuthorizationError].
func (p *Provider) Validate(
	ctx context.Context,
	req goidc.AuthorizationRequest,
) (
	*goidc.Client,
	error,
) {
	return authorize.Validate(p.context(ctx), req)
}

// Mint issues and stores the credential of a request already validated.
func (p *Provider) Mint(
	ctx context.Context,
	req goidc.AuthorizationRequest,
	client *goidc.Client,
	user goidc.User,
) (
	goidc.GrantOutcome,
	error,
) {
	return authorize.Mint(p.context(ctx), req, client, user)
}

// BuildRedirect returns the URI delivering outcome to the client.
func (p *Provider) BuildRedirect(
	baseURI string,
	outcome goidc.GrantOutcome,
	state string,
) (
	string,
	error,
) {
	return authorize.BuildRedirect(baseURI, outcome, state)
}

// ErrorRedirect returns the URI delivering err to the client. It fails if err
// cannot be redirected, see [AuthorizationError.IsRedirectable].
func (p *Provider) ErrorRedirect(err AuthorizationError) (string, error) {
	return authorize.ErrorRedirect(err)
}

// HasConsent reports whether the user already granted the scopes to the
// client.
func (p *Provider) HasConsent(
	ctx context.Context,
	user goidc.User,
	client *goidc.Client,
	scopes []string,
) bool {
	return authorize.HasConsent(p.context(ctx), user, client, scopes)
}

// RecordConsent saves the scopes the user granted to the client.
func (p *Provider) RecordConsent(
	ctx context.Context,
	user goidc.User,
	client *goidc.Client,
	scopes []string,
) error {
	return authorize.RecordConsent(p.context(ctx), user, client, scopes)
}

// Authorize validates the request and issues the credential for the user,
// returning the URI the user agent must be redirected to.
func (p *Provider) Authorize(
	ctx context.Context,
	req goidc.AuthorizationRequest,
	user goidc.User,
) (
	string,
	error,
) {
	return authorize.Authorize(p.context(ctx), req, user)
}

// Client is a shortcut to fetch clients using the client storage.
func (p *Provider) Client(ctx context.Context, id string) (*goidc.Client, error) {
	return p.config.ClientManager.Client(ctx, id)
}

func (p *Provider) context(ctx context.Context) oidc.Context {
	return oidc.FromContext(ctx, p.config)
}

func (p *Provider) setDefaults() {
	p.idTokenSigAlg = nonZeroOrDefault(p.idTokenSigAlg, defaultIDTokenSigAlg)

	if p.config.Signer == nil {
		if _, ok := joseutil.SigningKey(p.privateJWKS, p.idTokenSigAlg); ok {
			p.config.Signer = joseutil.NewKeySetSigner(p.privateJWKS, p.idTokenSigAlg)
		}
	}

	if p.config.ClientManager == nil {
		p.config.ClientManager = storage.NewClientManager()
	}
	if p.config.GrantManager == nil {
		p.config.GrantManager = storage.NewGrantManager()
	}
	if p.config.ConsentManager == nil {
		p.config.ConsentManager = storage.NewConsentManager()
	}

	p.config.AuthorizationCodeLifetimeSecs = nonZeroOrDefault(
		p.config.AuthorizationCodeLifetimeSecs,
		defaultAuthorizationCodeLifetimeSecs,
	)
	p.config.IDTokenLifetimeSecs = nonZeroOrDefault(
		p.config.IDTokenLifetimeSecs,
		defaultIDTokenLifetimeSecs,
	)
	p.config.TokenLifetimeSecs = nonZeroOrDefault(
		p.config.TokenLifetimeSecs,
		defaultTokenLifetimeSecs,
	)
	p.config.ConsentLifetimeSecs = nonZeroOrDefault(
		p.config.ConsentLifetimeSecs,
		defaultConsentLifetimeSecs,
	)

	if p.config.ConsentChallengeKey == nil {
		key := make([]byte, consentChallengeKeyMinLength)
		_, _ = rand.Read(key)
		p.config.ConsentChallengeKey = key
	}

	if p.config.Logger == nil {
		p.config.Logger = slog.Default()
	}
	if p.config.NowFunc == nil {
		p.config.NowFunc = timeutil.Now
	}
}
