package goidc

import (
	"slices"
	"strings"
)

const (
	EndpointAuthorize = "/authorize"
)

type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantImplicit          GrantType = "implicit"
	// GrantUnsupported is the classification of a response type that does not
	// map to any flow. Requests classified this way are always rejected.
	GrantUnsupported GrantType = ""
)

type ResponseType string

const (
	ResponseTypeCode            ResponseType = "code"
	ResponseTypeIDToken         ResponseType = "id_token"
	ResponseTypeToken           ResponseType = "token"
	ResponseTypeIDTokenAndToken ResponseType = "id_token token"
)

// Contains reports whether responseType is one of the space separated values
// of rt.
func (rt ResponseType) Contains(responseType ResponseType) bool {
	return slices.Contains(strings.Split(string(rt), " "), string(responseType))
}

// IsImplicit reports whether rt is one of the response types served by the
// implicit flow.
func (rt ResponseType) IsImplicit() bool {
	return rt == ResponseTypeIDToken || rt == ResponseTypeIDTokenAndToken ||
		rt == ResponseTypeToken
}

// ReturnsAccessToken reports whether the access token is handed to the client
// in the authorization response.
func (rt ResponseType) ReturnsAccessToken() bool {
	return rt == ResponseTypeIDTokenAndToken || rt == ResponseTypeToken
}

type TokenType string

const (
	// TokenTypeBearer is lower case on purpose, clients compare it verbatim.
	TokenTypeBearer TokenType = "bearer"
)

const (
	ScopeOpenID = "openid"
)

const (
	ClaimIssuer             string = "iss"
	ClaimSubject            string = "sub"
	ClaimAudience           string = "aud"
	ClaimExpiry             string = "exp"
	ClaimIssuedAt           string = "iat"
	ClaimNonce              string = "nonce"
	ClaimAuthenticationTime string = "auth_time"
	ClaimAccessTokenHash    string = "at_hash"
)

const (
	ParamClientID         = "client_id"
	ParamRedirectURI      = "redirect_uri"
	ParamResponseType     = "response_type"
	ParamScope            = "scope"
	ParamState            = "state"
	ParamNonce            = "nonce"
	ParamCode             = "code"
	ParamAccessToken      = "access_token"
	ParamIDToken          = "id_token"
	ParamTokenType        = "token_type"
	ParamExpiresIn        = "expires_in"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
	// ParamConsentChallenge carries the challenge handed to the consent page
	// back to the authorization endpoint.
	ParamConsentChallenge = "consent_challenge"
)

const (
	DefaultAuthorizationCodeLifetimeSecs = 600
	DefaultIDTokenLifetimeSecs           = 600
	DefaultTokenLifetimeSecs             = 3600
	DefaultConsentLifetimeSecs           = 90 * 24 * 60 * 60
)
