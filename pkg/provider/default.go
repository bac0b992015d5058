package provider

import (
	"github.com/go-jose/go-jose/v4"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

const (
	defaultIDTokenSigAlg                 = jose.RS256
	defaultAuthorizationCodeLifetimeSecs = goidc.DefaultAuthorizationCodeLifetimeSecs
	defaultIDTokenLifetimeSecs           = goidc.DefaultIDTokenLifetimeSecs
	defaultTokenLifetimeSecs             = goidc.DefaultTokenLifetimeSecs
	defaultConsentLifetimeSecs           = goidc.DefaultConsentLifetimeSecs
	consentChallengeKeyMinLength         = 32
)

func nonZeroOrDefault[T comparable](s1 T, s2 T) T {
	var zero T
	if s1 == zero {
		return s2
	}
	return s1
}
