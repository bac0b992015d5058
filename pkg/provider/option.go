package provider

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type ProviderOption func(p *Provider) error

// WithClientStorage replaces the default client storage which keeps the
// clients stored in memory.
func WithClientStorage(storage goidc.ClientManager) ProviderOption {
	return func(p *Provider) error {
		p.config.ClientManager = storage
		return nil
	}
}

// WithGrantStorage replaces the default storage of authorization codes and
// access tokens which keeps them in memory.
func WithGrantStorage(storage goidc.GrantManager) ProviderOption {
	return func(p *Provider) error {
		p.config.GrantManager = storage
		return nil
	}
}

// WithConsentStorage replaces the default consent storage which keeps the
// consents stored in memory.
func WithConsentStorage(storage goidc.ConsentManager) ProviderOption {
	return func(p *Provider) error {
		p.config.ConsentManager = storage
		return nil
	}
}

// WithIDTokenSignatureAlgorithm defines the algorithm ID tokens are signed
// with. The private JWKS must contain a signing key for it. The default is
// RS256.
// The at_hash claim follows the algorithm: it is the left half of the SHA-256
// hash of the access token for RS256, ES256 and PS256, of SHA-384 for the 384
// variants and of SHA-512 for the 512 ones.
func WithIDTokenSignatureAlgorithm(alg jose.SignatureAlgorithm) ProviderOption {
	return func(p *Provider) error {
		p.idTokenSigAlg = alg
		return nil
	}
}

// WithSigner replaces the default signer which signs ID tokens with a key of
// the private JWKS. When set, the private JWKS informed to [New] is ignored.
func WithSigner(signer goidc.Signer) ProviderOption {
	return func(p *Provider) error {
		p.config.Signer = signer
		return nil
	}
}

// WithAuthorizationCodeLifetime overrides the default lifetime of
// authorization codes which is 10 minutes.
func WithAuthorizationCodeLifetime(secs int) ProviderOption {
	return func(p *Provider) error {
		p.config.AuthorizationCodeLifetimeSecs = secs
		return nil
	}
}

// WithIDTokenLifetime overrides the default lifetime of ID tokens which is
// 10 minutes.
func WithIDTokenLifetime(secs int) ProviderOption {
	return func(p *Provider) error {
		p.config.IDTokenLifetimeSecs = secs
		return nil
	}
}

// WithTokenLifetime overrides the default lifetime of access tokens which is
// one hour. The value is also the "expires_in" returned to clients.
func WithTokenLifetime(secs int) ProviderOption {
	return func(p *Provider) error {
		p.config.TokenLifetimeSecs = secs
		return nil
	}
}

// WithConsentLifetime overrides the default lifetime of consents which is 90
// days.
func WithConsentLifetime(secs int) ProviderOption {
	return func(p *Provider) error {
		p.config.ConsentLifetimeSecs = secs
		return nil
	}
}

// WithSubjectFunc defines how users are mapped to the "sub" claim. By default,
// the user ID is used.
func WithSubjectFunc(f goidc.SubjectFunc) ProviderOption {
	return func(p *Provider) error {
		p.config.SubjectFunc = f
		return nil
	}
}

// WithIDTokenProcessors adds processors that can modify the claims of every
// ID token before it is signed. They run in the order informed.
func WithIDTokenProcessors(processors ...goidc.IDTokenProcessor) ProviderOption {
	return func(p *Provider) error {
		p.config.IDTokenProcessors = append(p.config.IDTokenProcessors, processors...)
		return nil
	}
}

// WithUserFunc defines how the authenticated user is read from requests to the
// authorization endpoint. It is required by [Provider.Handler].
func WithUserFunc(f goidc.UserFunc) ProviderOption {
	return func(p *Provider) error {
		p.config.UserFunc = f
		return nil
	}
}

// WithRenderLoginFunc defines the page shown when the user is not
// authenticated. By default, a login_required error is returned.
func WithRenderLoginFunc(f goidc.RenderLoginFunc) ProviderOption {
	return func(p *Provider) error {
		p.config.RenderLoginFunc = f
		return nil
	}
}

// WithRenderConsentFunc defines the consent page. The page must post the
// challenge it receives back as [goidc.ParamConsentChallenge]. By default,
// clients that require consent get an access_denied error.
func WithRenderConsentFunc(f goidc.RenderConsentFunc) ProviderOption {
	return func(p *Provider) error {
		p.config.RenderConsentFunc = f
		return nil
	}
}

// WithConsentChallengeKey defines the HMAC key used to bind consent
// submissions to the consent page rendered for the same user and request. It
// must have at least 32 bytes. By default, a random key is generated, which
// only works when a single instance serves the authorization endpoint.
func WithConsentChallengeKey(key []byte) ProviderOption {
	return func(p *Provider) error {
		p.config.ConsentChallengeKey = key
		return nil
	}
}

// WithRenderErrorFunc defines how errors that cannot be redirected to the
// client are rendered. By default, they are written as JSON.
func WithRenderErrorFunc(f goidc.RenderErrorFunc) ProviderOption {
	return func(p *Provider) error {
		p.config.RenderErrorFunc = f
		return nil
	}
}

// WithOutcomeRecorder defines a recorder notified about the outcome of every
// authorization request.
func WithOutcomeRecorder(recorder goidc.OutcomeRecorder) ProviderOption {
	return func(p *Provider) error {
		p.config.Recorder = recorder
		return nil
	}
}

// WithLogger overrides the default logger which is [slog.Default].
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) error {
		if logger == nil {
			return errors.New("the logger cannot be nil")
		}
		p.config.Logger = logger
		return nil
	}
}

// WithNowFunc overrides the clock used to compute every expiry.
func WithNowFunc(f func() time.Time) ProviderOption {
	return func(p *Provider) error {
		p.config.NowFunc = f
		return nil
	}
}
