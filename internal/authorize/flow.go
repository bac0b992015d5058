package authorize

import (
	"github.com/kaoden/goidc-authorize/internal/strutil"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// Flow is the classification of an authorization request.
type Flow struct {
	Grant goidc.GrantType
	// IsAuthentication is true for OpenID Connect requests, i.e. requests
	// whose scope contains "openid". It decides whether an ID token and a
	// nonce are required, regardless of the grant.
	IsAuthentication bool
}

// Classify maps the response type to a grant and checks whether the request
// is an OpenID authentication request. Unknown response types are classified
// as [goidc.GrantUnsupported] and rejected during validation.
func Classify(responseType goidc.ResponseType, scopes []string) Flow {
	flow := Flow{
		Grant:            goidc.GrantUnsupported,
		IsAuthentication: strutil.ContainsOpenID(scopes),
	}

	switch {
	case responseType == goidc.ResponseTypeCode:
		flow.Grant = goidc.GrantAuthorizationCode
	case responseType.IsImplicit():
		flow.Grant = goidc.GrantImplicit
	}

	return flow
}
