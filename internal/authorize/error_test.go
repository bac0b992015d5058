package authorize_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/kaoden/goidc-authorize/internal/authorize"
	"github.com/kaoden/goidc-authorize/internal/oidctest"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_Code(t *testing.T) {
	testCases := []struct {
		kind authorize.ErrorKind
		want goidc.ErrorCode
	}{
		{authorize.KindInvalidClient, goidc.ErrorCodeInvalidClient},
		{authorize.KindMissingRedirectURI, goidc.ErrorCodeInvalidRequest},
		{authorize.KindInvalidRedirectURI, goidc.ErrorCodeInvalidRequest},
		{authorize.KindUnsupportedResponseType, goidc.ErrorCodeUnsupportedResponseType},
		{authorize.KindInvalidRequest, goidc.ErrorCodeInvalidRequest},
		{authorize.KindAccessDenied, goidc.ErrorCodeAccessDenied},
		{authorize.KindServerError, goidc.ErrorCodeServerError},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.kind), func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.kind.Code())
		})
	}
}

func TestErrorRedirect_Query(t *testing.T) {
	// Given.
	ctx := oidctest.NewContext(t, goidc.ResponseTypeCode)
	req := newRequest("unknown", "email")
	_, err := authorize.Validate(ctx, req)
	var authzErr authorize.Error
	require.True(t, errors.As(err, &authzErr))

	// When.
	redirectURI, err := authorize.ErrorRedirect(authzErr)

	// Then.
	require.Nil(t, err)
	parsedURI, err := url.Parse(redirectURI)
	require.Nil(t, err)
	assert.Equal(t, "unsupported_response_type", parsedURI.Query().Get("error"))
	assert.NotEmpty(t, parsedURI.Query().Get("error_description"))
	assert.Equal(t, "random_state", parsedURI.Query().Get("state"))
	assert.Empty(t, parsedURI.Fragment)
}

func TestErrorRedirect_Fragment(t *testing.T) {
	// Given.
	ctx := oidctest.NewContext(t, goidc.ResponseTypeIDToken)
	req := newRequest(goidc.ResponseTypeIDToken, "openid")
	req.Nonce = ""
	req.State = ""
	_, err := authorize.Validate(ctx, req)
	var authzErr authorize.Error
	require.True(t, errors.As(err, &authzErr))

	// When.
	redirectURI, err := authorize.ErrorRedirect(authzErr)

	// Then.
	require.Nil(t, err)
	parsedURI, err := url.Parse(redirectURI)
	require.Nil(t, err)
	assert.Empty(t, parsedURI.RawQuery)
	fragment, err := url.ParseQuery(parsedURI.Fragment)
	require.Nil(t, err)
	assert.Equal(t, "invalid_request", fragment.Get("error"))
	assert.False(t, fragment.Has("state"))
}

func TestErrorRedirect_NotRedirectable(t *testing.T) {
	// Given.
	ctx := oidctest.NewContext(t, goidc.ResponseTypeCode)
	req := newRequest(goidc.ResponseTypeCode, "email")
	req.RedirectURI = "https://attacker.example/cb"
	_, err := authorize.Validate(ctx, req)
	var authzErr authorize.Error
	require.True(t, errors.As(err, &authzErr))

	// When.
	_, err = authorize.ErrorRedirect(authzErr)

	// Then.
	assert.NotNil(t, err)
	assert.Equal(t, goidc.ErrorCodeInvalidRequest, authzErr.OIDCError().Code)
}
