package authorize_test

import (
	"errors"
	"testing"

	"github.com/kaoden/goidc-authorize/internal/authorize"
	"github.com/kaoden/goidc-authorize/internal/oidctest"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	var cases = []struct {
		name               string
		clientResponseType goidc.ResponseType
		req                goidc.AuthorizationRequest
		wantKind           authorize.ErrorKind
		wantRedirectable   bool
	}{
		{
			name:               "valid_oauth_code_request",
			clientResponseType: goidc.ResponseTypeCode,
			req:                newRequest(goidc.ResponseTypeCode, "email"),
		},
		{
			name:               "valid_openid_code_request",
			clientResponseType: goidc.ResponseTypeCode,
			req:                newRequest(goidc.ResponseTypeCode, "openid", "email"),
		},
		{
			name:               "valid_oauth_token_request_ignores_client_response_type",
			clientResponseType: goidc.ResponseTypeCode,
			req:                newRequest(goidc.ResponseTypeToken, "email"),
		},
		{
			name:               "valid_redirect_uri_with_extra_query",
			clientResponseType: goidc.ResponseTypeCode,
			req: func() goidc.AuthorizationRequest {
				req := newRequest(goidc.ResponseTypeCode, "email")
				req.RedirectURI = oidctest.ClientRedirectURI + "?tenant=a"
				return req
			}(),
		},
		{
			name:               "unknown_client",
			clientResponseType: goidc.ResponseTypeCode,
			req: func() goidc.AuthorizationRequest {
				req := newRequest(goidc.ResponseTypeCode, "openid")
				req.ClientID = "unknown"
				req.RedirectURI = ""
				return req
			}(),
			wantKind: authorize.KindInvalidClient,
		},
		{
			name:               "openid_request_without_redirect_uri",
			clientResponseType: goidc.ResponseTypeCode,
			req: func() goidc.AuthorizationRequest {
				req := newRequest("unknown", "openid")
				req.RedirectURI = ""
				return req
			}(),
			wantKind: authorize.KindMissingRedirectURI,
		},
		{
			name:               "unsupported_response_type",
			clientResponseType: goidc.ResponseTypeCode,
			req:                newRequest("code id_token", "openid"),
			wantKind:           authorize.KindUnsupportedResponseType,
			wantRedirectable:   true,
		},
		{
			name:               "unsupported_response_type_with_unregistered_redirect_uri",
			clientResponseType: goidc.ResponseTypeCode,
			req: func() goidc.AuthorizationRequest {
				req := newRequest("code id_token", "email")
				req.RedirectURI = "https://attacker.example/cb"
				return req
			}(),
			wantKind: authorize.KindUnsupportedResponseType,
		},
		{
			name:               "implicit_openid_request_without_nonce",
			clientResponseType: goidc.ResponseTypeIDToken,
			req: func() goidc.AuthorizationRequest {
				req := newRequest(goidc.ResponseTypeIDToken, "openid")
				req.Nonce = ""
				return req
			}(),
			wantKind:         authorize.KindInvalidRequest,
			wantRedirectable: true,
		},
		{
			name:               "openid_response_type_mismatch",
			clientResponseType: goidc.ResponseTypeCode,
			req:                newRequest(goidc.ResponseTypeIDTokenAndToken, "openid"),
			wantKind:           authorize.KindInvalidRequest,
			wantRedirectable:   true,
		},
		{
			name:               "unregistered_redirect_uri",
			clientResponseType: goidc.ResponseTypeCode,
			req: func() goidc.AuthorizationRequest {
				req := newRequest(goidc.ResponseTypeCode, "email")
				req.RedirectURI = oidctest.ClientRedirectURI + "/other"
				return req
			}(),
			wantKind: authorize.KindInvalidRedirectURI,
		},
		{
			name:               "oauth_request_without_redirect_uri",
			clientResponseType: goidc.ResponseTypeCode,
			req: func() goidc.AuthorizationRequest {
				req := newRequest(goidc.ResponseTypeCode, "email")
				req.RedirectURI = ""
				return req
			}(),
			wantKind: authorize.KindInvalidRedirectURI,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// Given.
			ctx := oidctest.NewContext(t, c.clientResponseType)

			// When.
			client, err := authorize.Validate(ctx, c.req)

			// Then.
			if c.wantKind == "" {
				require.Nil(t, err)
				assert.Equal(t, oidctest.ClientID, client.ID)
				return
			}

			require.NotNil(t, err)
			assert.Nil(t, client)

			var authzErr authorize.Error
			require.True(t, errors.As(err, &authzErr))
			assert.Equal(t, c.wantKind, authzErr.Kind)
			assert.Equal(t, c.wantRedirectable, authzErr.IsRedirectable())
			assert.Equal(t, c.req.RedirectURI, authzErr.RedirectURI)
			assert.Equal(t, c.req.State, authzErr.State)
		})
	}
}

func TestValidate_UnknownClientWrapsTheCause(t *testing.T) {
	// Given.
	ctx := oidctest.NewContext(t, goidc.ResponseTypeCode)
	req := newRequest(goidc.ResponseTypeCode, "openid")
	req.ClientID = "unknown"

	// When.
	_, err := authorize.Validate(ctx, req)

	// Then.
	assert.ErrorIs(t, err, goidc.ErrNotFound)
	var authzErr authorize.Error
	require.ErrorAs(t, err, &authzErr)
	assert.Equal(t, goidc.ErrorCodeInvalidClient, authzErr.Code())
}

// newRequest returns a request for the test client using its registered
// redirect URI.
func newRequest(responseType goidc.ResponseType, scopes ...string) goidc.AuthorizationRequest {
	return goidc.AuthorizationRequest{
		ClientID:     oidctest.ClientID,
		RedirectURI:  oidctest.ClientRedirectURI,
		ResponseType: responseType,
		Scopes:       scopes,
		State:        "random_state",
		Nonce:        "random_nonce",
	}
}
