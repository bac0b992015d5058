package authorize

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// BuildRedirect returns the URI the user agent is sent to after a successful
// authorization. Authorization codes are added to the query of baseURI and
// implicit credentials to its fragment. Parameters already present in baseURI
// are preserved, unless overwritten by a response parameter with the same
// name. The state is always written, even when empty.
func BuildRedirect(baseURI string, outcome goidc.GrantOutcome, state string) (string, error) {
	switch {
	case outcome.Code != nil:
		return urlWithQueryParams(baseURI, url.Values{
			goidc.ParamCode:  {outcome.Code.Code},
			goidc.ParamState: {state},
		})
	case outcome.Token != nil:
		issuance := outcome.Token
		params := url.Values{
			goidc.ParamTokenType: {string(issuance.TokenType)},
			goidc.ParamExpiresIn: {strconv.Itoa(issuance.ExpiresInSecs)},
			goidc.ParamState:     {state},
		}
		if issuance.AccessToken != "" {
			params.Set(goidc.ParamAccessToken, issuance.AccessToken)
		}
		if issuance.IDToken != "" {
			params.Set(goidc.ParamIDToken, issuance.IDToken)
		}
		return urlWithFragmentParams(baseURI, params)
	default:
		return "", errors.New("the grant outcome has no credential")
	}
}

// ErrorRedirect returns the URI the user agent is sent to when err is
// redirectable. Implicit requests receive the error in the fragment, all the
// others in the query.
func ErrorRedirect(err Error) (string, error) {
	if !err.IsRedirectable() {
		return "", fmt.Errorf("the error %s cannot be redirected", err.Code())
	}

	params := url.Values{
		goidc.ParamError:            {string(err.Code())},
		goidc.ParamErrorDescription: {err.Description},
	}
	if err.State != "" {
		params.Set(goidc.ParamState, err.State)
	}

	if err.Grant == goidc.GrantImplicit {
		return urlWithFragmentParams(err.RedirectURI, params)
	}
	return urlWithQueryParams(err.RedirectURI, params)
}

func urlWithQueryParams(redirectURI string, params url.Values) (string, error) {
	parsedURL, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("could not parse the redirect uri: %w", err)
	}

	query := parsedURL.Query()
	for param, values := range params {
		query[param] = values
	}
	parsedURL.RawQuery = query.Encode()

	return parsedURL.String(), nil
}

func urlWithFragmentParams(redirectURI string, params url.Values) (string, error) {
	parsedURL, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("could not parse the redirect uri: %w", err)
	}

	fragment, err := url.ParseQuery(parsedURL.Fragment)
	if err != nil {
		return "", fmt.Errorf("could not parse the redirect uri fragment: %w", err)
	}
	for param, values := range params {
		fragment[param] = values
	}

	// The fragment is already encoded, so it must not go through
	// URL.String again.
	parsedURL.Fragment = ""
	parsedURL.RawFragment = ""
	return fmt.Sprintf("%s#%s", parsedURL.String(), fragment.Encode()), nil
}
